// Package frameio converts image files to planar float32 frames and back.
//
// Decoding accepts PNG, JPEG, GIF, BMP and TIFF. Channel values are scaled
// from their 8 or 16 bit range into [0, 1] without any transfer-curve
// conversion. Images that are not opaque get a fourth (alpha) plane.
// Encoding writes 16-bit PNG or TIFF so corrected frames keep precision.
package frameio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ajroetker/go-grayworld/grayworld"
	planar "github.com/ajroetker/go-grayworld/hwy/contrib/image"
)

// Format is an output container.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
)

// FormatFor picks the output format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: cannot write %q", grayworld.ErrUnsupportedFormat, filepath.Ext(path))
}

// Decode reads an image and returns it as a planar frame together with the
// name of the format it was stored in.
func Decode(r io.Reader) (*planar.Frame[float32], string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", grayworld.ErrUnsupportedFormat, err)
		}
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	f, err := FromImage(img)
	if err != nil {
		return nil, name, err
	}
	return f, name, nil
}

// FromImage converts any image.Image to a planar frame in [0, 1].
func FromImage(img image.Image) (*planar.Frame[float32], error) {
	b := img.Bounds()
	planes := 3
	if !opaque(img) {
		planes = 4
	}
	f, err := planar.NewFrame[float32](b.Dx(), b.Dy(), planes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grayworld.ErrUnsupportedFormat, err)
	}

	const scale = 1.0 / 0xffff
	for y := range b.Dy() {
		r, g, bl := f.R().RowSlice(y), f.G().RowSlice(y), f.B().RowSlice(y)
		var a []float32
		if f.HasAlpha() {
			a = f.Alpha().RowSlice(y)
		}
		for x := range b.Dx() {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			r[x] = float32(c.R) * scale
			g[x] = float32(c.G) * scale
			bl[x] = float32(c.B) * scale
			if a != nil {
				a[x] = float32(c.A) * scale
			}
		}
	}
	return f, nil
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}

// ToImage converts a frame to 16-bit non-premultiplied RGBA, clamping to
// [0, 1]. RGB frames become fully opaque.
func ToImage(f *planar.Frame[float32]) (*image.NRGBA64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	img := image.NewNRGBA64(image.Rect(0, 0, f.Width(), f.Height()))
	for y := range f.Height() {
		r, g, b := f.R().RowSlice(y), f.G().RowSlice(y), f.B().RowSlice(y)
		var a []float32
		if f.HasAlpha() {
			a = f.Alpha().RowSlice(y)
		}
		for x := range f.Width() {
			c := color.NRGBA64{R: to16(r[x]), G: to16(g[x]), B: to16(b[x]), A: 0xffff}
			if a != nil {
				c.A = to16(a[x])
			}
			img.SetNRGBA64(x, y, c)
		}
	}
	return img, nil
}

func to16(v float32) uint16 {
	return uint16(min(max(v, 0), 1)*0xffff + 0.5)
}

// Encode writes f to w in the given format.
func Encode(w io.Writer, f *planar.Frame[float32], format Format) error {
	img, err := ToImage(f)
	if err != nil {
		return err
	}
	switch format {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: cannot write %q", grayworld.ErrUnsupportedFormat, format)
}

// ReadFile decodes the image stored at path.
func ReadFile(path string) (*planar.Frame[float32], string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	f, name, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return f, name, nil
}

// WriteFile encodes f to path, creating or truncating it.
func WriteFile(path string, f *planar.Frame[float32], format Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	if err := Encode(w, f, format); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return w.Flush()
}
