package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// ErrDegenerateRay is returned when a ray direction has zero length or is not finite
var ErrDegenerateRay = errors.New("degenerate ray direction")

// Intersections holds every sphere a ray meets, in scene order. Spheres,
// Points and Distances are kept in lock-step: entry i of each describes the
// same hit. Closest indexes the nearest hit and is only meaningful when Hit
// reports true.
type Intersections struct {
	Spheres   []*Sphere
	Points    []core.Vec3
	Distances []float64 // distance from the ray origin along the unit direction
	Closest   int
}

// Hit reports whether the ray met at least one sphere
func (in Intersections) Hit() bool {
	return len(in.Spheres) > 0
}

// ClosestSphere returns the nearest sphere. Only valid when Hit is true.
func (in Intersections) ClosestSphere() *Sphere {
	return in.Spheres[in.Closest]
}

// ClosestPoint returns the nearest hit point. Only valid when Hit is true.
func (in Intersections) ClosestPoint() core.Vec3 {
	return in.Points[in.Closest]
}

// ClosestDistance returns the distance to the nearest hit. Only valid when Hit is true.
func (in Intersections) ClosestDistance() float64 {
	return in.Distances[in.Closest]
}

// Intersect scans every sphere and returns all of them the ray meets.
//
// A sphere whose center lies behind the origin (or exactly at it) along the
// direction is skipped, so a ray starting on a surface never reports the
// sphere it leaves from when heading outward. Among the hits, the smallest
// distance wins; equal distances go to the later sphere.
func Intersect(origin, direction core.Vec3, spheres []*Sphere) (Intersections, error) {
	var result Intersections

	dirLength := direction.Length()
	if dirLength == 0 || math.IsNaN(dirLength) || math.IsInf(dirLength, 0) {
		return result, fmt.Errorf("%w: %v", ErrDegenerateRay, direction)
	}
	unitDir := direction.Multiply(1.0 / dirLength)

	closestDistance := math.Inf(1)
	for _, sphere := range spheres {
		// Work with the origin at (0,0,0)
		center := sphere.Center.Subtract(origin)
		along := direction.Dot(center)
		if along <= 0 {
			continue
		}

		// Closest approach of the ray to the center
		projected := unitDir.Multiply(along / dirLength)
		offset := projected.Subtract(center).Length()
		if offset > sphere.Radius {
			continue
		}

		// Near root: first crossing of the surface
		distance := projected.Length() - math.Sqrt(sphere.Radius*sphere.Radius-offset*offset)
		if distance <= closestDistance {
			result.Closest = len(result.Spheres)
			closestDistance = distance
		}

		result.Spheres = append(result.Spheres, sphere)
		result.Points = append(result.Points, origin.Add(unitDir.Multiply(distance)))
		result.Distances = append(result.Distances, distance)
	}

	return result, nil
}
