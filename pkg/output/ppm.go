package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/MitrB/my-cgfs/pkg/renderer"
)

// EncodePPM writes the framebuffer as a binary PPM (P6) image with 8-bit
// channels. Colors are clamped to [0, 1] before scaling by 255.
func EncodePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	row := make([]byte, fb.Width*3)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			row[x*3], row[x*3+1], row[x*3+2] = fb.RGB8(x, y)
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("write ppm row %d: %w", y, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	return nil
}
