// Package output encodes rendered framebuffers into image files.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MitrB/my-cgfs/pkg/renderer"
)

// ErrUnknownFormat is returned for an unsupported image format
var ErrUnknownFormat = errors.New("unknown image format")

// Format names an image encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// ParseFormat accepts a format name with or without a leading dot
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatPPM, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (supported: ppm, png)", ErrUnknownFormat, name)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// Encode writes fb in the given format
func Encode(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	switch format {
	case FormatPPM:
		return EncodePPM(w, fb)
	case FormatPNG:
		return EncodePNG(w, fb)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// Save writes fb to path, choosing the encoder from the file extension.
// Nothing is written when the extension is not supported.
func Save(path string, fb *renderer.Framebuffer) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := Encode(f, fb, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	return nil
}
