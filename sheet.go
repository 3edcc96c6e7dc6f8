package bitbox

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sizeSuffix = regexp.MustCompile(`_(\d+)x(\d+)\.png$`)

	errSize      = errors.New("bitbox: invalid frame size")
	errNoSheets  = errors.New("bitbox: no sprite sheets")
	errSheetSize = errors.New("bitbox: frame size larger than sprite sheet")
)

// ParseSize parses a frame size written as WxH.
func ParseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return image.Point{}, errSize
	}
	x, err := strconv.Atoi(w)
	if err != nil || x <= 0 {
		return image.Point{}, errSize
	}
	y, err := strconv.Atoi(h)
	if err != nil || y <= 0 {
		return image.Point{}, errSize
	}
	return image.Pt(x, y), nil
}

// sheetSize returns the frame size encoded in a file name such as
// hero_16x24.png.
func sheetSize(file string) (image.Point, bool) {
	m := sizeSuffix.FindStringSubmatch(filepath.Base(file))
	if m == nil {
		return image.Point{}, false
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	if x == 0 || y == 0 {
		return image.Point{}, false
	}
	return image.Pt(x, y), true
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

// cutSheet cuts m into frames of the given size, left to right then top to
// bottom. Partial frames on the right and bottom edges are dropped.
func cutSheet(m image.Image, size image.Point) []image.Image {
	var frames []image.Image
	b := m.Bounds()
	for y := b.Min.Y; y+size.Y <= b.Max.Y; y += size.Y {
		for x := b.Min.X; x+size.X <= b.Max.X; x += size.X {
			r := image.Rect(x, y, x+size.X, y+size.Y)
			if s, ok := m.(subImager); ok {
				frames = append(frames, s.SubImage(r))
				continue
			}
			f := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
			draw.Draw(f, f.Bounds(), m, r.Min, draw.Src)
			frames = append(frames, f)
		}
	}
	return frames
}

// BuildSheet encodes the frames of the sprite sheets in files, taken in
// name order, into out. If size is zero, the frame size is taken from the
// first file name or else is the size of the first sheet.
func (b *Builder) BuildSheet(files []string, size image.Point, out string) error {
	if len(files) == 0 {
		return errNoSheets
	}

	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	var frames []image.Image
	for i, file := range sorted {
		m, err := loadImage(file)
		if err != nil {
			return err
		}

		if i == 0 {
			if size == (image.Point{}) {
				var ok bool
				if size, ok = sheetSize(file); !ok {
					size = m.Bounds().Size()
				}
			}
			if s := m.Bounds().Size(); size.X > s.X || size.Y > s.Y {
				return fmt.Errorf("%s: %w", file, errSheetSize)
			}
			b.logger.Printf("Generating \"%s\" from %s, frame size %dx%d\n", out, strings.Join(sorted, ","), size.X, size.Y)
		}

		frames = append(frames, cutSheet(m, size)...)
	}

	return b.encode(frames, image.Rect(0, 0, size.X, size.Y), out)
}
