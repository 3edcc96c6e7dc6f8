/*
Package palette builds the 256 color palettes used by indexed Bitbox sprites.

A palette can be extracted from a set of images with a median cut quantizer,
loaded from a paletted PNG image or written as one, 16 colors per row.
Images can then be remapped onto a palette so that every opaque pixel uses
one of its colors, keeping transparent pixels transparent.
*/
package palette

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// MaxColors is the largest palette an indexed sprite can use.
	MaxColors = 256

	alphaThreshold = 127
	rowColors      = 16
)

var (
	errNotPaletted = errors.New("palette: image is not paletted")
	errNoColors    = errors.New("palette: no opaque pixels")
	errTooMany     = errors.New("palette: more than 256 colors")
)

// Gather every opaque pixel of the images into a single row image, the
// quantizer would otherwise count transparent pixels as colors.
func opaquePixels(images []image.Image) *image.NRGBA {
	var pix []color.NRGBA
	for _, m := range images {
		b := m.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
				if c.A < alphaThreshold {
					continue
				}
				c.A = 0xff
				pix = append(pix, c)
			}
		}
	}

	row := image.NewNRGBA(image.Rect(0, 0, len(pix), 1))
	for x, c := range pix {
		row.SetNRGBA(x, 0, c)
	}
	return row
}

// Extract returns a palette of at most n opaque colors representing the
// opaque pixels of the images.
func Extract(images []image.Image, n int) (color.Palette, error) {
	if n <= 0 || n > MaxColors {
		return nil, errTooMany
	}

	m := opaquePixels(images)
	if m.Bounds().Empty() {
		return nil, errNoColors
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)

	out := make(color.Palette, 0, len(p))
	seen := make(map[color.NRGBA]struct{}, len(p))
	for _, c := range p {
		o := color.NRGBAModel.Convert(c).(color.NRGBA)
		o.A = 0xff
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}

	return out, nil
}

// Load reads a paletted image from r and returns its palette.
func Load(r io.Reader) (color.Palette, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	pm, ok := m.(*image.Paletted)
	if !ok {
		return nil, errNotPaletted
	}
	if len(pm.Palette) > MaxColors {
		return nil, errTooMany
	}

	p := make(color.Palette, len(pm.Palette))
	for i, c := range pm.Palette {
		o := color.NRGBAModel.Convert(c).(color.NRGBA)
		o.A = 0xff
		p[i] = o
	}
	return p, nil
}

// Encode writes p to w as a paletted PNG image 16 colors wide where pixel i
// uses color i.
func Encode(w io.Writer, p color.Palette) error {
	if len(p) == 0 {
		return errNoColors
	}
	if len(p) > MaxColors {
		return errTooMany
	}

	m := image.NewPaletted(image.Rect(0, 0, rowColors, (len(p)+rowColors-1)/rowColors), p)
	for i := range p {
		m.SetColorIndex(i%rowColors, i/rowColors, uint8(i))
	}

	return png.Encode(w, m)
}

// Remap returns a copy of m where every opaque pixel is replaced by the
// closest color of p and every other pixel is fully transparent.
func Remap(m image.Image, p color.Palette) *image.NRGBA {
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A < alphaThreshold {
				continue
			}
			c.A = 0xff
			n := color.NRGBAModel.Convert(p.Convert(c)).(color.NRGBA)
			n.A = 0xff
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, n)
		}
	}
	return out
}
