package scene

import (
	"fmt"
	"math/rand"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/material"
)

// uniform samples [min, max)
func uniform(random *rand.Rand, r RangeCfg) float64 {
	return r.Min + random.Float64()*(r.Max-r.Min)
}

// uniformOpenLow samples (min, max], so a zero minimum never yields zero
func uniformOpenLow(random *rand.Rand, r RangeCfg) float64 {
	return r.Min + (1-random.Float64())*(r.Max-r.Min)
}

// generateSpheres places count spheres uniformly inside the configured
// bounds. Each sphere takes a material picked uniformly from the table;
// materials that ask for a random ambient color get one here.
func generateSpheres(settings Settings, table *material.Table, random *rand.Rand) ([]*geometry.Sphere, error) {
	count := settings.RandomSphereAmount
	if count <= 0 {
		return nil, nil
	}

	names := table.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no materials to pick random spheres from", ErrInvalidSettings)
	}

	cfg := settings.SphereSettings
	spheres := make([]*geometry.Sphere, 0, count)
	for i := 0; i < count; i++ {
		position := core.NewVec3(
			uniform(random, cfg.X),
			uniform(random, cfg.Y),
			uniform(random, cfg.Z),
		).Add(settings.ClusterOffset)

		radius := uniformOpenLow(random, cfg.Radius)

		mat, err := table.Lookup(names[random.Intn(len(names))])
		if err != nil {
			return nil, err
		}
		if mat.HasRandomAmbient() {
			mat = mat.WithAmbient(randomAmbient(cfg, random))
		}

		sphere, err := geometry.NewSphere(position, radius, mat)
		if err != nil {
			return nil, fmt.Errorf("random sphere %d: %w", i, err)
		}
		spheres = append(spheres, sphere)
	}

	return spheres, nil
}

// generateBackground picks a background color inside the configured ranges
func generateBackground(cfg RandomBackgroundCfg, random *rand.Rand) core.Vec3 {
	return core.NewVec3(
		uniform(random, cfg.Red),
		uniform(random, cfg.Green),
		uniform(random, cfg.Blue),
	)
}

// randomAmbient samples an ambient color from the sphere color ranges
func randomAmbient(cfg RandomSphereCfg, random *rand.Rand) core.Vec3 {
	return core.NewVec3(
		uniform(random, cfg.Red),
		uniform(random, cfg.Green),
		uniform(random, cfg.Blue),
	)
}
