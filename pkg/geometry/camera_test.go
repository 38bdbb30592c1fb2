package geometry

import (
	"errors"
	"testing"

	"github.com/MitrB/my-cgfs/pkg/core"
)

func TestViewport_Default(t *testing.T) {
	viewport := DefaultViewport()

	if viewport.Width() != 1 {
		t.Errorf("Expected width 1, got %f", viewport.Width())
	}
	if viewport.Height() != 1 {
		t.Errorf("Expected height 1, got %f", viewport.Height())
	}
	if viewport.Z() != 1 {
		t.Errorf("Expected depth 1, got %f", viewport.Z())
	}
	if err := viewport.Validate(); err != nil {
		t.Errorf("Default viewport should be valid: %v", err)
	}
}

func TestPixelToDirection(t *testing.T) {
	viewport := DefaultViewport()

	tests := []struct {
		name     string
		canvas   Canvas
		row, col int
		expected core.Vec3
	}{
		{
			name:     "single pixel maps to the center",
			canvas:   Canvas{Width: 1, Height: 1},
			expected: core.NewVec3(0, 0, 1),
		},
		{
			name:     "top-left pixel center",
			canvas:   Canvas{Width: 4, Height: 4},
			row:      0,
			col:      0,
			expected: core.NewVec3(-0.375, -0.375, 1),
		},
		{
			name:     "bottom-right pixel center",
			canvas:   Canvas{Width: 4, Height: 4},
			row:      3,
			col:      3,
			expected: core.NewVec3(0.375, 0.375, 1),
		},
		{
			name:     "non-square canvas",
			canvas:   Canvas{Width: 10, Height: 2},
			row:      1,
			col:      0,
			expected: core.NewVec3(-0.45, 0.25, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction := PixelToDirection(viewport, tt.canvas, tt.row, tt.col)
			if !vecClose(direction, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, direction)
			}
		})
	}
}

func TestPixelToDirection_CustomViewport(t *testing.T) {
	viewport := Viewport{
		LeftDown: core.NewVec3(-2, 1, 2),
		RightUp:  core.NewVec3(2, -1, 2),
	}
	canvas := Canvas{Width: 2, Height: 2}

	direction := PixelToDirection(viewport, canvas, 1, 1)
	expected := core.NewVec3(1, 0.5, 2)
	if !vecClose(direction, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, direction)
	}
}

func TestCamera_PrimaryRay(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, -1))
	ray := camera.PrimaryRay(DefaultViewport(), Canvas{Width: 1, Height: 1}, 0, 0)

	if ray.Origin != camera.Position {
		t.Errorf("Expected origin at camera %v, got %v", camera.Position, ray.Origin)
	}
	if ray.Direction != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected direction (0,0,1), got %v", ray.Direction)
	}
}

func TestView_Validate(t *testing.T) {
	tests := []struct {
		name     string
		canvas   Canvas
		viewport Viewport
	}{
		{"zero width canvas", Canvas{Width: 0, Height: 10}, DefaultViewport()},
		{"negative height canvas", Canvas{Width: 10, Height: -1}, DefaultViewport()},
		{"flipped viewport", Canvas{Width: 10, Height: 10}, Viewport{LeftDown: core.NewVec3(0.5, -0.5, 1), RightUp: core.NewVec3(-0.5, 0.5, 1)}},
		{"viewport on camera plane", Canvas{Width: 10, Height: 10}, Viewport{LeftDown: core.NewVec3(-0.5, 0.5, 0), RightUp: core.NewVec3(0.5, -0.5, 0)}},
		{"tilted viewport", Canvas{Width: 10, Height: 10}, Viewport{LeftDown: core.NewVec3(-0.5, 0.5, 1), RightUp: core.NewVec3(0.5, -0.5, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.canvas.Validate()
			if err == nil {
				err = tt.viewport.Validate()
			}
			if !errors.Is(err, ErrInvalidView) {
				t.Errorf("Expected ErrInvalidView, got %v", err)
			}
		})
	}
}
