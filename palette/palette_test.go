package palette

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	transparent = color.NRGBA{}
	red         = color.NRGBA{R: 0xff, A: 0xff}
	darkRed     = color.NRGBA{R: 0xf0, A: 0xff}
	blue        = color.NRGBA{B: 0xff, A: 0xff}
)

func newImage(pix ...color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, len(pix), 1))
	for x, c := range pix {
		m.SetNRGBA(x, 0, c)
	}
	return m
}

func TestExtract(t *testing.T) {
	m := newImage(red, red, transparent, blue, transparent, blue)

	p, err := Extract([]image.Image{m}, 4)
	require.Nil(t, err)
	assert.NotEmpty(t, p)
	assert.LessOrEqual(t, len(p), 4)
	for _, c := range p {
		assert.Equal(t, uint8(0xff), c.(color.NRGBA).A)
	}
}

func TestExtractSingleColor(t *testing.T) {
	p, err := Extract([]image.Image{newImage(red, transparent), newImage(red)}, 16)
	require.Nil(t, err)
	assert.Contains(t, p, color.Color(red))
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract([]image.Image{newImage(transparent, transparent)}, 16)
	assert.Equal(t, errNoColors, err)

	_, err = Extract([]image.Image{newImage(red)}, 0)
	assert.Equal(t, errTooMany, err)

	_, err = Extract([]image.Image{newImage(red)}, 257)
	assert.Equal(t, errTooMany, err)
}

func TestEncodeLoad(t *testing.T) {
	p := make(color.Palette, 20)
	for i := range p {
		p[i] = color.NRGBA{R: uint8(i * 10), G: uint8(255 - i), B: 3, A: 0xff}
	}

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, p))

	m, err := png.Decode(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 2), m.Bounds())

	got, err := Load(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	require.Len(t, got, len(p))
	for i := range p {
		assert.Equal(t, p[i], got[i])
	}
}

func TestLoadNotPaletted(t *testing.T) {
	b := new(bytes.Buffer)
	require.Nil(t, png.Encode(b, newImage(red, blue)))

	_, err := Load(b)
	assert.Equal(t, errNotPaletted, err)
}

func TestEncodeErrors(t *testing.T) {
	assert.Equal(t, errNoColors, Encode(new(bytes.Buffer), nil))
	assert.Equal(t, errTooMany, Encode(new(bytes.Buffer), make(color.Palette, 257)))
}

func TestRemap(t *testing.T) {
	m := newImage(darkRed, color.NRGBA{B: 0xff, A: 0x40}, color.NRGBA{B: 0xe0, A: 0x90})

	out := Remap(m, color.Palette{red, blue})
	assert.Equal(t, image.Rect(0, 0, 3, 1), out.Bounds())
	assert.Equal(t, red, out.NRGBAAt(0, 0))
	assert.Equal(t, transparent, out.NRGBAAt(1, 0))
	assert.Equal(t, blue, out.NRGBAAt(2, 0))
}

func TestRemapMovesOrigin(t *testing.T) {
	m := image.NewNRGBA(image.Rect(4, 4, 6, 5))
	m.SetNRGBA(5, 4, blue)

	out := Remap(m, color.Palette{red, blue})
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, transparent, out.NRGBAAt(0, 0))
	assert.Equal(t, blue, out.NRGBAAt(1, 0))
}
