package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/material"
)

// ErrInvalidRadius is returned when a sphere is built with a radius <= 0
var ErrInvalidRadius = errors.New("sphere radius must be > 0")

// Sphere represents a sphere shape. It owns a copy of its material.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidRadius, radius)
	}
	if !center.IsFinite() {
		return nil, fmt.Errorf("sphere center must be finite, got %v", center)
	}
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}, nil
}

// Normal returns the outward unit normal at a point on the surface
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
