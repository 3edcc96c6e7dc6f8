/*
Package bitbox is a library for building Bitbox sprite files from sprite
sheets and Tiled tilesets.
*/
package bitbox

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/makapuf/bitbox-sdk/palette"
	"github.com/makapuf/bitbox-sdk/sprite"
)

type Builder struct {
	cache   *Cache
	logger  *log.Logger
	options sprite.Options
	remap   bool
}

// New returns a Builder encoding with options. The cache may be nil. If
// remap is set, Indexed8 frames are first mapped onto the palette.
func New(cache *Cache, logger *log.Logger, options sprite.Options, remap bool) *Builder {
	if options.Palette == nil {
		options.Palette = sprite.MicroPalette
	}
	return &Builder{
		cache:   cache,
		logger:  logger,
		options: options,
		remap:   remap,
	}
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

// rawPixels returns the frames as consecutive NRGBA pixel rows.
func rawPixels(frames []image.Image) []byte {
	var b []byte
	for _, m := range frames {
		r := m.Bounds()
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
				b = append(b, c.R, c.G, c.B, c.A)
			}
		}
	}
	return b
}

func cacheKey(frames []image.Image, raw []byte, o *sprite.Options) string {
	h := sha1.New()

	fields := []uint32{
		uint32(o.Mode), uint32(o.MinFill), uint32(o.MinMatch), uint32(o.SubtileHeight),
		uint32(o.Hitbox.Min.X), uint32(o.Hitbox.Min.Y), uint32(o.Hitbox.Max.X), uint32(o.Hitbox.Max.Y),
		uint32(len(frames)),
	}
	for _, m := range frames {
		fields = append(fields, uint32(m.Bounds().Dx()), uint32(m.Bounds().Dy()))
	}
	if o.Mode == sprite.Indexed8 {
		for _, c := range o.Palette {
			r, g, b, a := c.RGBA()
			fields = append(fields, r, g, b, a)
		}
	}
	binary.Write(h, binary.LittleEndian, fields)
	h.Write(raw)

	return fmt.Sprintf("%X", h.Sum(nil))
}

func (b *Builder) encode(frames []image.Image, hitbox image.Rectangle, out string) error {
	if b.remap && b.options.Mode == sprite.Indexed8 {
		remapped := make([]image.Image, len(frames))
		for i, m := range frames {
			remapped[i] = palette.Remap(m, b.options.Palette)
		}
		frames = remapped
	}

	opts := b.options
	opts.Hitbox = hitbox

	raw := rawPixels(frames)
	key := cacheKey(frames, raw, &opts)

	if b.cache != nil {
		data, err := b.cache.Find(key)
		if err != nil {
			return err
		}
		if data != nil {
			b.logger.Printf("Using cached \"%s\" (%d bytes)\n", out, len(data))
			return os.WriteFile(out, data, 0666)
		}
	}

	buf := new(bytes.Buffer)
	stats, err := sprite.EncodeWithStats(buf, frames, &opts)
	if err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}

	b.logger.Printf("Encoded \"%s\" as %s: %s\n", out, opts.Mode, stats)
	if n, err := baseline(raw); err == nil {
		b.logger.Printf("Sprite \"%s\" is %d bytes, zstd baseline is %d bytes\n", out, buf.Len(), n)
	}

	if b.cache != nil {
		if err := b.cache.Store(key, buf.Bytes()); err != nil {
			return err
		}
	}

	return os.WriteFile(out, buf.Bytes(), 0666)
}
