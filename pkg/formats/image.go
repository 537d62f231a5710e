package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// ErrUnsupportedImageFormat is returned for extensions other than .png,
// .tif and .tiff.
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// ImageFormat identifies an image encoding.
type ImageFormat int

// Supported image formats.
const (
	ImagePNG ImageFormat = iota
	ImageTIFF
)

// ImageFormatFor picks the encoding from a file extension.
func ImageFormatFor(path string) (ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return ImagePNG, nil
	case ".tif", ".tiff":
		return ImageTIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, filepath.Ext(path))
	}
}

// GrayImage renders a width x height grid into an 8-bit grayscale image.
// value returns a level in [0,1]; out-of-range levels are clamped.
func GrayImage(width, height int, value func(x, y int) float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := value(x, y)
			if math.IsNaN(v) || v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}
	return img
}

// GrayLevels returns the image's luminance as levels in [0,1], row-major.
func GrayLevels(img image.Image) (width, height int, levels []float64) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	levels = make([]float64, 0, width*height)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			levels = append(levels, float64(g.Y)/255)
		}
	}
	return width, height, levels
}

// EncodeImage writes img in the given format.
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)
	case ImageTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return ErrUnsupportedImageFormat
	}
}

// DecodeImage reads an image in the given format.
func DecodeImage(r io.Reader, format ImageFormat) (image.Image, error) {
	switch format {
	case ImagePNG:
		return png.Decode(r)
	case ImageTIFF:
		return tiff.Decode(r)
	default:
		return nil, ErrUnsupportedImageFormat
	}
}

// WriteImageFile encodes img to path, choosing the format by extension.
func WriteImageFile(path string, img image.Image) error {
	format, err := ImageFormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := EncodeImage(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// ReadImageFile decodes an image from path, choosing the format by extension.
func ReadImageFile(path string) (image.Image, error) {
	format, err := ImageFormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	img, err := DecodeImage(f, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
