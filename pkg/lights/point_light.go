package lights

import (
	"fmt"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// PointLight is an infinitesimal light with separate diffuse and specular
// intensities.
type PointLight struct {
	Position          core.Vec3
	DiffuseIntensity  core.Vec3
	SpecularIntensity core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(position, diffuse, specular core.Vec3) (PointLight, error) {
	if !position.IsFinite() || !diffuse.IsFinite() || !specular.IsFinite() {
		return PointLight{}, fmt.Errorf("point light at %v: non-finite position or intensity", position)
	}
	return PointLight{
		Position:          position,
		DiffuseIntensity:  diffuse,
		SpecularIntensity: specular,
	}, nil
}

// DirectionFrom returns the (unnormalized) direction from point toward the
// light together with the distance between them.
func (l PointLight) DirectionFrom(point core.Vec3) (core.Vec3, float64) {
	toLight := l.Position.Subtract(point)
	return toLight, toLight.Length()
}
