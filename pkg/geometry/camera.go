package geometry

import (
	"errors"
	"fmt"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// ErrInvalidView is returned for a degenerate canvas or viewport
var ErrInvalidView = errors.New("invalid view")

// Camera is a pinhole camera looking toward +Z
type Camera struct {
	Position core.Vec3
}

// NewCamera creates a camera at the given position
func NewCamera(position core.Vec3) Camera {
	return Camera{Position: position}
}

// Canvas is the output resolution in pixels
type Canvas struct {
	Width  int
	Height int
}

// Validate checks that both dimensions are positive
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas must be at least 1x1, got %dx%d", ErrInvalidView, c.Width, c.Height)
	}
	return nil
}

// Viewport is the camera-space rectangle primary rays pass through.
//
//	+--------RightUp
//	|            |
//	LeftDown-----+
//
// Y grows downward, so LeftDown.Y is the larger of the two.
type Viewport struct {
	LeftDown core.Vec3
	RightUp  core.Vec3
}

// DefaultViewport returns a 1x1 viewport at depth 1
func DefaultViewport() Viewport {
	return Viewport{
		LeftDown: core.NewVec3(-0.5, 0.5, 1),
		RightUp:  core.NewVec3(0.5, -0.5, 1),
	}
}

// Width returns the horizontal extent of the viewport
func (v Viewport) Width() float64 {
	return v.RightUp.X - v.LeftDown.X
}

// Height returns the vertical extent of the viewport
func (v Viewport) Height() float64 {
	return v.LeftDown.Y - v.RightUp.Y
}

// Z returns the camera-space depth of the viewport plane
func (v Viewport) Z() float64 {
	return v.LeftDown.Z
}

// Validate rejects viewports with no area or that sit on the camera plane
func (v Viewport) Validate() error {
	if !(v.Width() > 0) || !(v.Height() > 0) {
		return fmt.Errorf("%w: viewport must have positive width and height, got %gx%g", ErrInvalidView, v.Width(), v.Height())
	}
	if v.LeftDown.Z != v.RightUp.Z {
		return fmt.Errorf("%w: viewport corners at different depths %g and %g", ErrInvalidView, v.LeftDown.Z, v.RightUp.Z)
	}
	if v.Z() == 0 {
		return fmt.Errorf("%w: viewport depth must not be 0", ErrInvalidView)
	}
	return nil
}

// PixelToDirection maps a pixel to the camera-relative direction through the
// center of that pixel on the viewport.
func PixelToDirection(viewport Viewport, canvas Canvas, row, col int) core.Vec3 {
	viewportWidth := viewport.Width()
	viewportHeight := viewport.Height()
	pixelWidth := viewportWidth / float64(canvas.Width)
	pixelHeight := viewportHeight / float64(canvas.Height)

	return core.NewVec3(
		pixelWidth*float64(col)-viewportWidth/2+pixelWidth/2,
		pixelHeight*float64(row)-viewportHeight/2+pixelHeight/2,
		viewport.Z(),
	)
}

// PrimaryRay returns the ray from the camera through the given pixel
func (c Camera) PrimaryRay(viewport Viewport, canvas Canvas, row, col int) core.Ray {
	return core.NewRay(c.Position, PixelToDirection(viewport, canvas, row, col))
}
