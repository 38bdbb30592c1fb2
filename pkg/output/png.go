package output

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"

	"github.com/MitrB/my-cgfs/pkg/renderer"
)

// EncodePNG writes the framebuffer as a PNG image
func EncodePNG(w io.Writer, fb *renderer.Framebuffer) error {
	dc := gg.NewContext(fb.Width, fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.Clamped(x, y)
			dc.SetRGB(float64(r), float64(g), float64(b))
			dc.SetPixel(x, y)
		}
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
