package scene

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/lights"
	"github.com/MitrB/my-cgfs/pkg/material"
)

// Build resolves settings against a material table and returns a validated
// scene. Random spheres come first, predefined spheres are appended after
// them. A nil logger discards output.
func Build(settings Settings, table *material.Table, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if len(settings.Materials) > 0 {
		extra := make([]material.Material, 0, len(settings.Materials))
		for _, mc := range settings.Materials {
			mat, err := mc.Build()
			if err != nil {
				return nil, fmt.Errorf("settings material: %w", err)
			}
			extra = append(extra, mat)
		}
		var err error
		if table, err = table.With(extra...); err != nil {
			return nil, err
		}
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	random := rand.New(rand.NewSource(seed))

	s := &Scene{
		Camera:            geometry.NewCamera(settings.CameraPosition),
		Viewport:          settings.viewport(),
		Canvas:            geometry.Canvas{Width: settings.Resolution[0], Height: settings.Resolution[1]},
		BackgroundColor:   settings.BackgroundColor,
		AmbientLight:      settings.AmbientLight,
		ReflectionBounces: settings.ReflectionCount,
		ShadowPolicy:      settings.ShadowPolicy,
		ReflectionMode:    settings.ReflectionMode,
	}
	if s.ShadowPolicy == "" {
		s.ShadowPolicy = ShadowUnbounded
	}
	if s.ReflectionMode == "" {
		s.ReflectionMode = ReflectionOverwrite
	}

	if settings.RandomSpheres {
		spheres, err := generateSpheres(settings, table, random)
		if err != nil {
			return nil, err
		}
		s.Spheres = spheres
	}
	if settings.RandomBackground {
		s.BackgroundColor = generateBackground(settings.BackgroundSettings, random)
	}

	for i, sc := range settings.Spheres {
		mat, err := table.Lookup(sc.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d at %v: %w", i, sc.Position, err)
		}
		if mat.HasRandomAmbient() {
			mat = mat.WithAmbient(randomAmbient(settings.SphereSettings, random))
		}
		sphere, err := geometry.NewSphere(sc.Position, sc.Radius, mat)
		if err != nil {
			return nil, fmt.Errorf("sphere %d at %v (material %q): %w", i, sc.Position, sc.Material, err)
		}
		s.Spheres = append(s.Spheres, sphere)
	}

	for i, lc := range settings.Lights {
		light, err := lights.NewPointLight(lc.Position, lc.Diffuse, lc.Specular)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.Lights = append(s.Lights, light)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	if settings.Debug {
		logger.Printf("Scene successfully built (seed %d).\n", seed)
		logger.Printf("\tSpheres #: %d\n", len(s.Spheres))
		logger.Printf("\tLights #: %d\n", len(s.Lights))
	}

	return s, nil
}
