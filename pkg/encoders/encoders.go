package encoders

import (
	"bufio"
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

	"golang.org/x/image/bmp"
)

// Format is an output image file format
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

var (
	// ErrUnknownFormat is returned for file extensions and names no encoder handles
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrBufferSize is returned when a buffer does not hold 3*width*height values
	ErrBufferSize = errors.New("pixel buffer size does not match image dimensions")
)

// ParseFormat resolves a format name such as "png" or ".PNG"
func ParseFormat(name string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(name), ".")) {
	case FormatPPM:
		return FormatPPM, nil
	case FormatPNG:
		return FormatPNG, nil
	case FormatBMP:
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromFilename picks the format from a file extension
func FormatFromFilename(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, filename)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	default:
		return "image/x-portable-pixmap"
	}
}

// ToImage converts a row-major RGB buffer with values in [0, 1] to an image
func ToImage(buffer []float64, width, height int) (*image.RGBA, error) {
	if err := checkBuffer(buffer, width, height); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := 3 * (y*width + x)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(buffer[i]),
				G: toByte(buffer[i+1]),
				B: toByte(buffer[i+2]),
				A: 255,
			})
		}
	}
	return img, nil
}

// Encode writes the buffer to w in the given format
func Encode(w io.Writer, format Format, buffer []float64, width, height int) error {
	if format == FormatPPM {
		return encodePPM(w, buffer, width, height)
	}

	img, err := ToImage(buffer, width, height)
	if err != nil {
		return err
	}

	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", format, err)
	}
	return nil
}

// WriteFile encodes the buffer into filename, choosing the format by extension
func WriteFile(filename string, buffer []float64, width, height int) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}
	if err := checkBuffer(buffer, width, height); err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := Encode(file, format, buffer, width, height); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	return nil
}

// encodePPM writes a binary (P6) portable pixmap
func encodePPM(w io.Writer, buffer []float64, width, height int) error {
	if err := checkBuffer(buffer, width, height); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height)
	for _, v := range buffer {
		bw.WriteByte(toByte(v))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error encoding ppm: %w", err)
	}
	return nil
}

func checkBuffer(buffer []float64, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBufferSize, width, height)
	}
	if len(buffer) != 3*width*height {
		return fmt.Errorf("%w: got %d values for %dx%d", ErrBufferSize, len(buffer), width, height)
	}
	return nil
}

// toByte scales a channel in [0, 1] to [0, 255], truncating
func toByte(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(255 * v)
	}
}
