package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/bmp"
)

// ErrPixelSize is returned when pixel data does not match the frame size.
var ErrPixelSize = errors.New("debug: pixel data size mismatch")

// Screenshot formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Screenshots writes frames read back from the GL framebuffer to files
// named <prefix>_<timestamp>.<format>.
type Screenshots struct {
	dir    string
	prefix string
	format string
	now    func() time.Time
}

// NewScreenshots creates a capturer. An unknown format falls back to PNG.
func NewScreenshots(dir, prefix, format string) *Screenshots {
	if format != FormatBMP {
		format = FormatPNG
	}
	return &Screenshots{dir: dir, prefix: prefix, format: format, now: time.Now}
}

// Filename returns the path the next capture would be written to.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.%s", s.prefix, s.now().Format("2006-01-02_15-04-05.000"), s.format)
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}

// FromPixels converts bottom-up RGBA rows, as glReadPixels returns them,
// into a top-down image.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrPixelSize, width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// Capture writes raw framebuffer pixels and returns the file name.
func (s *Screenshots) Capture(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.Save(img)
}

// Save writes img and returns the file name.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	name := s.Filename()
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := s.encode(f, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", s.format, err)
	}
	return name, nil
}

func (s *Screenshots) encode(w io.Writer, img image.Image) error {
	if s.format == FormatBMP {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}
