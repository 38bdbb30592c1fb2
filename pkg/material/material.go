package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/MitrB/my-cgfs/pkg/core"
)

var (
	// ErrUnknownMaterial is returned when a material name is not in the table
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrInvalidMaterial is returned for out-of-range material coefficients
	ErrInvalidMaterial = errors.New("invalid material")
)

// Material holds the Phong reflectance coefficients of a surface plus the
// fraction of energy it passes on as a mirror reflection.
type Material struct {
	Name         string
	Specular     core.Vec3
	Diffuse      core.Vec3
	Ambient      core.Vec3
	Shininess    float64
	Reflectivity float64 // 1 is a perfect mirror
}

// Validate checks the coefficient invariants: shininess > 0 and
// reflectivity in [0, 1].
func (m Material) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMaterial)
	}
	if !(m.Shininess > 0) || math.IsInf(m.Shininess, 0) {
		return fmt.Errorf("%w %q: shininess must be > 0, got %g", ErrInvalidMaterial, m.Name, m.Shininess)
	}
	if !(m.Reflectivity >= 0 && m.Reflectivity <= 1) {
		return fmt.Errorf("%w %q: reflectivity must be in [0,1], got %g", ErrInvalidMaterial, m.Name, m.Reflectivity)
	}
	if !m.Specular.IsFinite() || !m.Diffuse.IsFinite() || !m.Ambient.IsFinite() {
		return fmt.Errorf("%w %q: non-finite color coefficient", ErrInvalidMaterial, m.Name)
	}
	return nil
}

// HasRandomAmbient reports whether the material asks the scene generator to
// pick its ambient color. A negative red ambient channel is the marker.
func (m Material) HasRandomAmbient() bool {
	return m.Ambient.X < 0
}

// WithAmbient returns a copy of the material with a different ambient color
func (m Material) WithAmbient(ambient core.Vec3) Material {
	m.Ambient = ambient
	return m
}
