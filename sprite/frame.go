package sprite

import (
	"bytes"
	"image"
	"image/draw"

	xxhash "github.com/cespare/xxhash/v2"
)

// Copy m into a tightly packed image with its top-left corner at (0, 0) so
// that frames can be compared by their Pix slices.
func toNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dup := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := m.(*image.NRGBA); ok {
		// Avoid the premultiplied round trip of draw.Draw
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dup.Pix[y*dup.Stride:(y+1)*dup.Stride], src.Pix[i:i+4*b.Dx()])
		}
		return dup
	}
	draw.Draw(dup, dup.Bounds(), m, b.Min, draw.Src)
	return dup
}

func loadFrames(frames []image.Image) ([]*image.NRGBA, error) {
	switch {
	case len(frames) == 0:
		return nil, &FormatError{Err: errNoFrames}
	case len(frames) > maxFrames:
		return nil, formatError(errTooManyFrames, "%d frames", len(frames))
	}

	size := frames[0].Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, &FormatError{Err: errEmptyFrame}
	}
	if size.X > maxDimension || size.Y > maxDimension {
		return nil, formatError(errTooLarge, "%dx%d", size.X, size.Y)
	}

	out := make([]*image.NRGBA, len(frames))
	for i, m := range frames {
		if s := m.Bounds().Size(); s != size {
			return nil, formatError(errFrameSize, "frame %d is %dx%d, expected %dx%d", i, s.X, s.Y, size.X, size.Y)
		}
		out[i] = toNRGBA(m)
	}
	return out, nil
}

// Cut every frame into strips of h lines, keeping source order.
func cutFrames(frames []*image.NRGBA, h int) []*image.NRGBA {
	var out []*image.NRGBA
	for _, m := range frames {
		b := m.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y += h {
			out = append(out, toNRGBA(m.SubImage(image.Rect(b.Min.X, y, b.Max.X, y+h))))
		}
	}
	return out
}

// Returns the unique frames in first-seen order and, for every input frame,
// the position of its copy in that list.
func dedupFrames(frames []*image.NRGBA) ([]*image.NRGBA, []int) {
	var unique []*image.NRGBA
	index := make([]int, len(frames))
	buckets := make(map[uint64][]int)

	for i, m := range frames {
		h := xxhash.Sum64(m.Pix)
		found := -1
		for _, u := range buckets[h] {
			if bytes.Equal(unique[u].Pix, m.Pix) {
				found = u
				break
			}
		}
		if found < 0 {
			found = len(unique)
			unique = append(unique, m)
			buckets[h] = append(buckets[h], found)
		}
		index[i] = found
	}

	return unique, index
}

// Stack frames vertically into one canvas.
func stackFrames(frames []*image.NRGBA) *image.NRGBA {
	w, h := frames[0].Bounds().Dx(), frames[0].Bounds().Dy()
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h*len(frames)))
	for i, m := range frames {
		copy(canvas.Pix[i*len(m.Pix):], m.Pix)
	}
	return canvas
}
