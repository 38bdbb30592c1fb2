package material

import (
	"fmt"
	"sort"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// Table is an immutable name -> Material mapping. It is built once before
// scene construction and only read afterwards.
type Table struct {
	materials map[string]Material
	names     []string
}

// NewTable validates the given materials and builds a table from them.
// Duplicate names are rejected.
func NewTable(materials ...Material) (*Table, error) {
	t := &Table{materials: make(map[string]Material, len(materials))}
	for _, m := range materials {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, exists := t.materials[m.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidMaterial, m.Name)
		}
		t.materials[m.Name] = m
		t.names = append(t.names, m.Name)
	}
	sort.Strings(t.names)
	return t, nil
}

// With returns a new table holding the receiver's materials with the given
// materials added. A material whose name already exists replaces the old one.
func (t *Table) With(materials ...Material) (*Table, error) {
	merged := make(map[string]Material, len(t.materials)+len(materials))
	for name, m := range t.materials {
		merged[name] = m
	}
	for _, m := range materials {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		merged[m.Name] = m
	}

	list := make([]Material, 0, len(merged))
	for _, m := range merged {
		list = append(list, m)
	}
	return NewTable(list...)
}

// Lookup returns the material registered under name
func (t *Table) Lookup(name string) (Material, error) {
	m, ok := t.materials[name]
	if !ok {
		return Material{}, fmt.Errorf("%w %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names returns the sorted material names
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of materials in the table
func (t *Table) Len() int {
	return len(t.names)
}

// DefaultTable returns the built-in materials
func DefaultTable() *Table {
	t, err := NewTable(defaultMaterials()...)
	if err != nil {
		// the built-in set is fixed, a failure here is a programming error
		panic(err)
	}
	return t
}

func defaultMaterials() []Material {
	return []Material{
		{
			Name:      "mat1",
			Specular:  core.NewVec3(1, 1, 1),
			Diffuse:   core.NewVec3(0.5, 0.6, 0.3),
			Ambient:   core.Splat(0.5),
			Shininess: 0.9,
		},
		{
			Name:      "mat2",
			Specular:  core.NewVec3(0.5, 0.6, 0.5),
			Diffuse:   core.NewVec3(0.9, 0.6, 0.3),
			Ambient:   core.NewVec3(0.9, 0, 0),
			Shininess: 50,
		},
		{
			Name:      "mat3",
			Specular:  core.NewVec3(0.1, 0.1, 0.1),
			Diffuse:   core.NewVec3(0.2, 0.2, 0.3),
			Ambient:   core.NewVec3(0.5, 0.5, 0.9),
			Shininess: 0.9,
		},
		{
			Name:      "mat4",
			Specular:  core.NewVec3(0.2, 0.5, 0.2),
			Diffuse:   core.NewVec3(0.1, 0.1, 0.3),
			Ambient:   core.NewVec3(0.1, 0, 0.1),
			Shininess: 50,
		},
		{
			Name:      "random_color",
			Specular:  core.NewVec3(1, 1, 1),
			Diffuse:   core.NewVec3(0.5, 0.6, 0.3),
			Ambient:   core.Splat(-0.5),
			Shininess: 2,
		},
		{
			Name:         "mirror",
			Specular:     core.NewVec3(1, 1, 1),
			Diffuse:      core.NewVec3(1, 1, 1),
			Ambient:      core.Splat(1),
			Shininess:    0.9,
			Reflectivity: 0.9,
		},
		{
			Name:         "random_color_mirror",
			Specular:     core.NewVec3(1, 1, 1),
			Diffuse:      core.NewVec3(0.9, 0.9, 0.9),
			Ambient:      core.Splat(-0.5),
			Shininess:    20,
			Reflectivity: 0.1,
		},
	}
}
