package integrator

import (
	"fmt"
	"math"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

// Shade computes the Phong color of a surface point: the ambient term plus
// a diffuse and specular term for every light that is not shadowed.
//
// incoming is the direction of the ray that reached hitPoint. It feeds the
// view term of the specular highlight together with the camera position.
func Shade(s *scene.Scene, hitPoint, incoming core.Vec3, sphere *geometry.Sphere) (core.Vec3, error) {
	mat := sphere.Material

	ambient := s.AmbientLight.MultiplyVec(mat.Ambient)
	diffuse := core.Vec3{}
	specular := core.Vec3{}

	normal := sphere.Normal(hitPoint)
	view := incoming.Add(s.Camera.Position).Negate()

	for i, light := range s.Lights {
		toLight, lightDistance := light.DirectionFrom(hitPoint)

		blocked, err := shadowed(s, hitPoint, toLight, lightDistance)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("shadow ray to light %d: %w", i, err)
		}
		if blocked {
			continue
		}

		lightDir := toLight.Normalize()
		cosTheta := normal.Dot(lightDir)

		diffuse = diffuse.Add(mat.Diffuse.MultiplyVec(light.DiffuseIntensity).Multiply(math.Max(0, cosTheta)))

		reflectDir := normal.Multiply(2 * cosTheta).Subtract(lightDir)
		highlight := math.Pow(math.Max(0, view.Dot(reflectDir)), mat.Shininess)
		specular = specular.Add(mat.Specular.MultiplyVec(light.SpecularIntensity).Multiply(highlight))
	}

	return ambient.Add(diffuse).Add(specular), nil
}

// shadowed casts a shadow ray from point toward a light
func shadowed(s *scene.Scene, point, toLight core.Vec3, lightDistance float64) (bool, error) {
	hits, err := geometry.Intersect(point, toLight, s.Spheres)
	if err != nil {
		return false, err
	}
	if !hits.Hit() {
		return false, nil
	}
	if s.ShadowPolicy != scene.ShadowClampToLight {
		return true, nil
	}
	for _, d := range hits.Distances {
		if d < lightDistance {
			return true, nil
		}
	}
	return false, nil
}
