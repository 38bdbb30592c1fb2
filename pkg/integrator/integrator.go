package integrator

import (
	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

// State is the terminal state of a traced ray
type State int

const (
	// StateMiss means the primary ray hit nothing; the color is the background
	StateMiss State = iota
	// StateAbsorbed means a surface with no reflectivity ended the chain
	StateAbsorbed
	// StateEscaped means a reflected ray left the scene
	StateEscaped
	// StateExhausted means the reflection budget ran out
	StateExhausted
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateMiss:
		return "miss"
	case StateAbsorbed:
		return "absorbed"
	case StateEscaped:
		return "escaped"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// TraceStats describes what happened while tracing a single primary ray
type TraceStats struct {
	State      State
	ShadeCalls int // shading evaluations performed
	Bounces    int // reflected rays cast
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along a primary ray
	RayColor(ray core.Ray, s *scene.Scene) (core.Vec3, TraceStats, error)
}
