package scene

import (
	"errors"
	"fmt"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/lights"
)

// ErrInvalidScene is returned by Validate for a malformed scene
var ErrInvalidScene = errors.New("invalid scene")

// ShadowPolicy decides which occluders block a shadow ray
type ShadowPolicy string

const (
	// ShadowUnbounded treats any sphere along the shadow ray as an occluder,
	// including spheres beyond the light.
	ShadowUnbounded ShadowPolicy = "unbounded"
	// ShadowClampToLight ignores occluders farther away than the light.
	ShadowClampToLight ShadowPolicy = "clamp"
)

// ReflectionMode decides how the colors of successive bounces combine
type ReflectionMode string

const (
	// ReflectionOverwrite keeps only the color computed by the last bounce.
	ReflectionOverwrite ReflectionMode = "overwrite"
	// ReflectionAccumulate sums each bounce's color weighted by the energy
	// fraction left at that bounce.
	ReflectionAccumulate ReflectionMode = "accumulate"
)

// Scene contains all the elements needed for rendering. It is built once and
// only read while rendering.
type Scene struct {
	Camera            geometry.Camera
	Viewport          geometry.Viewport
	Canvas            geometry.Canvas
	BackgroundColor   core.Vec3
	AmbientLight      core.Vec3
	Spheres           []*geometry.Sphere
	Lights            []lights.PointLight
	ReflectionBounces int
	ShadowPolicy      ShadowPolicy
	ReflectionMode    ReflectionMode
}

// Validate checks every scene invariant and names the offending element
func (s *Scene) Validate() error {
	if err := s.Canvas.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := s.Viewport.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if s.ReflectionBounces < 0 {
		return fmt.Errorf("%w: reflection bounces must be >= 0, got %d", ErrInvalidScene, s.ReflectionBounces)
	}
	switch s.ShadowPolicy {
	case ShadowUnbounded, ShadowClampToLight:
	default:
		return fmt.Errorf("%w: unknown shadow policy %q", ErrInvalidScene, s.ShadowPolicy)
	}
	switch s.ReflectionMode {
	case ReflectionOverwrite, ReflectionAccumulate:
	default:
		return fmt.Errorf("%w: unknown reflection mode %q", ErrInvalidScene, s.ReflectionMode)
	}
	if !s.Camera.Position.IsFinite() || !s.BackgroundColor.IsFinite() || !s.AmbientLight.IsFinite() {
		return fmt.Errorf("%w: camera, background and ambient light must be finite", ErrInvalidScene)
	}

	for i, sphere := range s.Spheres {
		if sphere == nil {
			return fmt.Errorf("%w: sphere %d is nil", ErrInvalidScene, i)
		}
		if !sphere.Center.IsFinite() {
			return fmt.Errorf("%w: sphere %d (material %q): center %v is not finite",
				ErrInvalidScene, i, sphere.Material.Name, sphere.Center)
		}
		if !(sphere.Radius > 0) {
			return fmt.Errorf("%w: sphere %d (material %q): %w, got %g",
				ErrInvalidScene, i, sphere.Material.Name, geometry.ErrInvalidRadius, sphere.Radius)
		}
		if err := sphere.Material.Validate(); err != nil {
			return fmt.Errorf("%w: sphere %d: %w", ErrInvalidScene, i, err)
		}
	}
	for i, light := range s.Lights {
		if !light.Position.IsFinite() || !light.DiffuseIntensity.IsFinite() || !light.SpecularIntensity.IsFinite() {
			return fmt.Errorf("%w: light %d at %v: non-finite position or intensity", ErrInvalidScene, i, light.Position)
		}
	}
	return nil
}

// CountsByMaterial returns how many spheres use each material
func (s *Scene) CountsByMaterial() map[string]int {
	counts := make(map[string]int)
	for _, sphere := range s.Spheres {
		counts[sphere.Material.Name]++
	}
	return counts
}
