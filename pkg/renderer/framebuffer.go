package renderer

import (
	"github.com/chewxy/math32"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// Framebuffer stores a row-major grid of RGB colors exactly as traced.
// Tiles write disjoint pixels, so no locking is needed while rendering.
// Channels are narrowed to float32 only when encoding.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []float64 // len == Width*Height*3
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*3),
	}
}

func (fb *Framebuffer) offset(x, y int) int {
	return (y*fb.Width + x) * 3
}

// Set stores the color of pixel (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	i := fb.offset(x, y)
	fb.Pix[i] = c.X
	fb.Pix[i+1] = c.Y
	fb.Pix[i+2] = c.Z
}

// At returns the unclamped color of pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	i := fb.offset(x, y)
	return core.NewVec3(fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2])
}

// Colors returns every pixel in row-major order
func (fb *Framebuffer) Colors() []core.Vec3 {
	colors := make([]core.Vec3, 0, fb.Width*fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			colors = append(colors, fb.At(x, y))
		}
	}
	return colors
}

// RGB8 returns pixel (x, y) clamped to [0, 1] and scaled to 8 bits
func (fb *Framebuffer) RGB8(x, y int) (r, g, b uint8) {
	i := fb.offset(x, y)
	return quantize(fb.Pix[i]), quantize(fb.Pix[i+1]), quantize(fb.Pix[i+2])
}

// Clamped returns pixel (x, y) with every channel clamped to [0, 1]
func (fb *Framebuffer) Clamped(x, y int) (r, g, b float32) {
	i := fb.offset(x, y)
	return clamp01(fb.Pix[i]), clamp01(fb.Pix[i+1]), clamp01(fb.Pix[i+2])
}

// clamp01 narrows a channel to float32 and clamps it; NaN maps to 0
func clamp01(v float64) float32 {
	f := float32(v)
	if math32.IsNaN(f) {
		return 0
	}
	return math32.Min(1, math32.Max(0, f))
}

func quantize(v float64) uint8 {
	return uint8(255 * clamp01(v))
}
