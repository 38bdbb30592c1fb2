package integrator

import (
	"fmt"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

// Whitted traces mirror reflections up to the scene's bounce budget. Each
// surface keeps (1 - reflectivity) of the remaining energy fraction and
// passes the rest along the reflected ray.
type Whitted struct{}

// NewWhitted creates a Whitted-style integrator
func NewWhitted() *Whitted {
	return &Whitted{}
}

// RayColor implements Integrator
func (w *Whitted) RayColor(ray core.Ray, s *scene.Scene) (core.Vec3, TraceStats, error) {
	return w.Trace(s, ray.Origin, ray.Direction)
}

// Trace returns the color seen from origin along direction.
//
// In ReflectionOverwrite mode each bounce replaces the color of the previous
// one, so only the last shaded surface (or the escaping background) is
// returned. ReflectionAccumulate sums the weighted contribution of every
// bounce instead.
func (w *Whitted) Trace(s *scene.Scene, origin, direction core.Vec3) (core.Vec3, TraceStats, error) {
	var stats TraceStats

	hits, err := geometry.Intersect(origin, direction, s.Spheres)
	if err != nil {
		return core.Vec3{}, stats, fmt.Errorf("primary ray: %w", err)
	}
	if !hits.Hit() {
		stats.State = StateMiss
		return s.BackgroundColor, stats, nil
	}

	accumulate := s.ReflectionMode == scene.ReflectionAccumulate
	point := hits.ClosestPoint()
	sphere := hits.ClosestSphere()
	fraction := 1.0
	color := core.Vec3{}
	stats.State = StateExhausted

	for i := 0; i < s.ReflectionBounces; i++ {
		reflectivity := sphere.Material.Reflectivity

		shaded, err := Shade(s, point, direction, sphere)
		stats.ShadeCalls++
		if err != nil {
			return core.Vec3{}, stats, fmt.Errorf("shade at %v (material %q): %w", point, sphere.Material.Name, err)
		}
		contribution := shaded.Multiply((1 - reflectivity) * fraction)
		if accumulate {
			color = color.Add(contribution)
		} else {
			color = contribution
		}

		fraction *= reflectivity
		if fraction <= 0 {
			stats.State = StateAbsorbed
			break
		}

		direction = reflect(direction, sphere.Normal(point))
		hits, err = geometry.Intersect(point, direction, s.Spheres)
		stats.Bounces++
		if err != nil {
			return core.Vec3{}, stats, fmt.Errorf("reflected ray from %v: %w", point, err)
		}
		if !hits.Hit() {
			if accumulate {
				color = color.Add(s.BackgroundColor.Multiply(fraction))
			} else {
				color = s.BackgroundColor.Multiply(fraction * reflectivity)
			}
			stats.State = StateEscaped
			break
		}

		point = hits.ClosestPoint()
		sphere = hits.ClosestSphere()
	}

	return color, stats, nil
}

// reflect mirrors a direction about a unit normal. The result is a unit
// vector.
func reflect(direction, normal core.Vec3) core.Vec3 {
	d := direction.Normalize()
	return normal.Multiply(2 * d.Negate().Dot(normal)).Add(d)
}
