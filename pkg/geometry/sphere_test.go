package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/MitrB/my-cgfs/pkg/core"
)

func TestNewSphere_InvalidRadius(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
	}{
		{"zero radius", 0},
		{"negative radius", -1},
		{"NaN radius", math.NaN()},
		{"infinite radius", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere, err := NewSphere(core.NewVec3(0, 0, 0), tt.radius, testMaterial)
			if !errors.Is(err, ErrInvalidRadius) {
				t.Errorf("Expected ErrInvalidRadius, got %v", err)
			}
			if sphere != nil {
				t.Errorf("Expected nil sphere, got %+v", sphere)
			}
		})
	}
}

func TestNewSphere_NonFiniteCenter(t *testing.T) {
	if _, err := NewSphere(core.NewVec3(math.NaN(), 0, 0), 1, testMaterial); err == nil {
		t.Error("Expected error for NaN center")
	}
}

func TestSphere_CopiesMaterial(t *testing.T) {
	mat := testMaterial
	sphere, err := NewSphere(core.NewVec3(0, 0, 5), 1, mat)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mat.Shininess = 100
	if sphere.Material.Shininess != testMaterial.Shininess {
		t.Errorf("Sphere material changed with the caller's copy: %f", sphere.Material.Shininess)
	}
}

func TestSphere_Normal(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, 5), 2)

	tests := []struct {
		point    core.Vec3
		expected core.Vec3
	}{
		{core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1)},
		{core.NewVec3(2, 0, 5), core.NewVec3(1, 0, 0)},
		{core.NewVec3(0, -2, 5), core.NewVec3(0, -1, 0)},
	}

	for _, tt := range tests {
		normal := sphere.Normal(tt.point)
		if !vecClose(normal, tt.expected, 1e-12) {
			t.Errorf("Normal at %v: expected %v, got %v", tt.point, tt.expected, normal)
		}
	}
}
