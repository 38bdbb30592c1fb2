package scene

import (
	"fmt"
	"sort"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// builtinScenes maps scene IDs to their settings factories
var builtinScenes = map[string]struct {
	description string
	settings    func() Settings
}{
	"default": {
		description: "Random cluster of spheres on a random background",
		settings:    DefaultSettings,
	},
	"spheres": {
		description: "Three predefined spheres under a single light",
		settings:    NewSpheresSettings,
	},
	"mirrors": {
		description: "Colored spheres reflected in two mirror spheres",
		settings:    NewMirrorsSettings,
	},
}

// BuiltinSettings returns the settings of a built-in scene by ID
func BuiltinSettings(id string) (Settings, error) {
	builtin, ok := builtinScenes[id]
	if !ok {
		return Settings{}, fmt.Errorf("unknown scene %q (available: %v)", id, BuiltinNames())
	}
	return builtin.settings(), nil
}

// BuiltinNames returns the sorted IDs of the built-in scenes
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSpheresSettings creates a fixed scene with three overlapping spheres
func NewSpheresSettings() Settings {
	s := DefaultSettings()
	s.RandomSpheres = false
	s.RandomBackground = false
	s.Resolution = [2]int{640, 640}
	s.CameraPosition = core.NewVec3(0, 0, 0)
	s.Spheres = []SphereCfg{
		{Position: core.NewVec3(-1, -0.5, 5), Radius: 1, Material: "mat1"},
		{Position: core.NewVec3(0, 0, 5), Radius: 1, Material: "mat2"},
		{Position: core.NewVec3(1, 0.5, 5), Radius: 1, Material: "mat3"},
	}
	return s
}

// NewMirrorsSettings creates a fixed scene where two mirror spheres reflect
// each other and a row of matte spheres
func NewMirrorsSettings() Settings {
	s := DefaultSettings()
	s.RandomSpheres = false
	s.RandomBackground = false
	s.Resolution = [2]int{640, 640}
	s.CameraPosition = core.NewVec3(0, 0, 0)
	s.BackgroundColor = core.NewVec3(0.05, 0.05, 0.15)
	s.ReflectionCount = 5
	s.Spheres = []SphereCfg{
		{Position: core.NewVec3(-1.2, 0, 6), Radius: 1, Material: "mirror"},
		{Position: core.NewVec3(1.2, 0, 6), Radius: 1, Material: "mirror"},
		{Position: core.NewVec3(-2, 1.5, 4), Radius: 0.5, Material: "mat2"},
		{Position: core.NewVec3(0, 1.5, 4), Radius: 0.5, Material: "mat3"},
		{Position: core.NewVec3(2, 1.5, 4), Radius: 0.5, Material: "mat4"},
	}
	s.Lights = append(s.Lights, LightCfg{
		Position: core.NewVec3(5, -5, 0),
		Diffuse:  core.Splat(0.6),
		Specular: core.Splat(0.6),
	})
	return s
}
