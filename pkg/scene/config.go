package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/material"
)

// ErrInvalidSettings is returned for settings that cannot produce a scene
var ErrInvalidSettings = errors.New("invalid settings")

// RangeCfg is an inclusive [min, max] range for random values
type RangeCfg struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r RangeCfg) validate(name string) error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s range min %g > max %g", ErrInvalidSettings, name, r.Min, r.Max)
	}
	return nil
}

// RandomSphereCfg bounds the procedurally placed spheres. Positions are
// offset by Settings.ClusterOffset after sampling.
type RandomSphereCfg struct {
	X      RangeCfg `json:"x"`
	Y      RangeCfg `json:"y"`
	Z      RangeCfg `json:"z"`
	Radius RangeCfg `json:"radius"`
	Red    RangeCfg `json:"red"`
	Green  RangeCfg `json:"green"`
	Blue   RangeCfg `json:"blue"`
}

// RandomBackgroundCfg bounds a randomly chosen background color
type RandomBackgroundCfg struct {
	Red   RangeCfg `json:"red"`
	Green RangeCfg `json:"green"`
	Blue  RangeCfg `json:"blue"`
}

// ViewportCfg overrides the default viewport corners
type ViewportCfg struct {
	LeftDown core.Vec3 `json:"leftDown"`
	RightUp  core.Vec3 `json:"rightUp"`
}

// SphereCfg is a predefined sphere; the material is referenced by name
type SphereCfg struct {
	Position core.Vec3 `json:"position"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// LightCfg is a predefined point light
type LightCfg struct {
	Position core.Vec3 `json:"position"`
	Diffuse  core.Vec3 `json:"diffuse"`
	Specular core.Vec3 `json:"specular"`
}

// MaterialCfg adds or replaces a named material in the material table
type MaterialCfg struct {
	Name         string    `json:"name"`
	Specular     core.Vec3 `json:"specular"`
	Diffuse      core.Vec3 `json:"diffuse"`
	Ambient      core.Vec3 `json:"ambient"`
	Shininess    float64   `json:"shininess"`
	Reflectivity float64   `json:"reflectivity"`
}

// Build converts the config into a material
func (m MaterialCfg) Build() (material.Material, error) {
	mat := material.Material{
		Name:         m.Name,
		Specular:     m.Specular,
		Diffuse:      m.Diffuse,
		Ambient:      m.Ambient,
		Shininess:    m.Shininess,
		Reflectivity: m.Reflectivity,
	}
	if err := mat.Validate(); err != nil {
		return material.Material{}, err
	}
	return mat, nil
}

// MetaCfg carries descriptive metadata for scene files
type MetaCfg struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
}

// Settings describes how to build a scene
type Settings struct {
	Meta *MetaCfg `json:"meta,omitempty"`

	Resolution     [2]int       `json:"resolution"` // width, height
	CameraPosition core.Vec3    `json:"cameraPosition"`
	Viewport       *ViewportCfg `json:"viewport,omitempty"`

	RandomSpheres      bool            `json:"randomSpheres"`
	RandomSphereAmount int             `json:"randomSphereAmount"`
	SphereSettings     RandomSphereCfg `json:"sphereSettings"`
	ClusterOffset      core.Vec3       `json:"clusterOffset"`

	RandomBackground   bool                `json:"randomBackground"`
	BackgroundSettings RandomBackgroundCfg `json:"backgroundSettings"`
	BackgroundColor    core.Vec3           `json:"backgroundColor"`

	AmbientLight core.Vec3     `json:"ambientLight"`
	Spheres      []SphereCfg   `json:"spheres"`
	Lights       []LightCfg    `json:"lights"`
	Materials    []MaterialCfg `json:"materials,omitempty"`

	ReflectionCount int            `json:"reflectionCount"`
	ShadowPolicy    ShadowPolicy   `json:"shadowPolicy,omitempty"`
	ReflectionMode  ReflectionMode `json:"reflectionMode,omitempty"`

	Seed  int64 `json:"seed,omitempty"` // 0 picks a time based seed
	Debug bool  `json:"debug"`
}

// DefaultSettings returns the settings of the stock render: a random
// cluster of spheres in front of the camera, a random background and one
// white light above the scene.
func DefaultSettings() Settings {
	unit := RangeCfg{Min: 0, Max: 1}
	return Settings{
		Resolution:         [2]int{1080, 1080},
		CameraPosition:     core.NewVec3(0, 0, -1),
		RandomSpheres:      true,
		RandomSphereAmount: 100,
		SphereSettings: RandomSphereCfg{
			X:      RangeCfg{Min: -5, Max: 5},
			Y:      RangeCfg{Min: -5, Max: 5},
			Z:      RangeCfg{Min: -5, Max: 5},
			Radius: unit,
			Red:    unit,
			Green:  unit,
			Blue:   unit,
		},
		ClusterOffset:    core.NewVec3(0, 0, 10),
		RandomBackground: true,
		BackgroundSettings: RandomBackgroundCfg{
			Red:   unit,
			Green: unit,
			Blue:  unit,
		},
		BackgroundColor: core.NewVec3(0.3, 0.3, 0.9),
		AmbientLight:    core.Splat(0.5),
		Lights: []LightCfg{
			{Position: core.NewVec3(0, -10, 3), Diffuse: core.Splat(1), Specular: core.Splat(1)},
		},
		ReflectionCount: 3,
		ShadowPolicy:    ShadowUnbounded,
		ReflectionMode:  ReflectionOverwrite,
		Debug:           true,
	}
}

// Validate checks the settings before any scene is built
func (s Settings) Validate() error {
	if s.Resolution[0] <= 0 || s.Resolution[1] <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %dx%d", ErrInvalidSettings, s.Resolution[0], s.Resolution[1])
	}
	if s.RandomSphereAmount < 0 {
		return fmt.Errorf("%w: randomSphereAmount must be >= 0, got %d", ErrInvalidSettings, s.RandomSphereAmount)
	}
	if s.ReflectionCount < 0 {
		return fmt.Errorf("%w: reflectionCount must be >= 0, got %d", ErrInvalidSettings, s.ReflectionCount)
	}

	if s.RandomSpheres {
		ranges := []struct {
			name string
			r    RangeCfg
		}{
			{"x", s.SphereSettings.X},
			{"y", s.SphereSettings.Y},
			{"z", s.SphereSettings.Z},
			{"radius", s.SphereSettings.Radius},
			{"red", s.SphereSettings.Red},
			{"green", s.SphereSettings.Green},
			{"blue", s.SphereSettings.Blue},
		}
		for _, rc := range ranges {
			if err := rc.r.validate("sphere " + rc.name); err != nil {
				return err
			}
		}
		if s.SphereSettings.Radius.Min < 0 || !(s.SphereSettings.Radius.Max > 0) {
			return fmt.Errorf("%w: random sphere radius range must satisfy 0 <= min <= max and max > 0, got [%g, %g]",
				ErrInvalidSettings, s.SphereSettings.Radius.Min, s.SphereSettings.Radius.Max)
		}
	}
	if s.RandomBackground {
		if err := s.BackgroundSettings.Red.validate("background red"); err != nil {
			return err
		}
		if err := s.BackgroundSettings.Green.validate("background green"); err != nil {
			return err
		}
		if err := s.BackgroundSettings.Blue.validate("background blue"); err != nil {
			return err
		}
	}

	for i, sc := range s.Spheres {
		if sc.Material == "" {
			return fmt.Errorf("%w: sphere %d has no material", ErrInvalidSettings, i)
		}
	}
	return nil
}

// viewport returns the configured viewport or the default one
func (s Settings) viewport() geometry.Viewport {
	if s.Viewport == nil {
		return geometry.DefaultViewport()
	}
	return geometry.Viewport{LeftDown: s.Viewport.LeftDown, RightUp: s.Viewport.RightUp}
}

// DecodeSettings reads JSON settings on top of DefaultSettings. Fields the
// document leaves out keep their default value; unknown fields are rejected.
func DecodeSettings(r io.Reader) (Settings, error) {
	settings := DefaultSettings()

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// LoadSettings reads JSON settings from a file
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	settings, err := DecodeSettings(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings as indented JSON
func SaveSettings(path string, settings Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}
