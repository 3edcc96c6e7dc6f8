package sprite

import (
	"image"
	"image/color"
)

// A run is a stretch of a line that is either entirely transparent (pix is
// nil) or entirely opaque.
type run struct {
	n   int
	pix []color.NRGBA
	eol bool
}

// Split every line of the canvas into alternating transparent and opaque
// runs. The last run of a line carries eol. A trailing transparent run is
// dropped when an opaque run precedes it as the decoder never needs to skip
// to the right edge.
func segmentLines(m *image.NRGBA) ([]run, error) {
	b := m.Bounds()
	var runs []run

	for y := b.Min.Y; y < b.Max.Y; y++ {
		var line []run
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.NRGBAAt(x, y)
			transparent := isTransparent(c)
			if len(line) == 0 || (line[len(line)-1].pix == nil) != transparent {
				line = append(line, run{})
				if !transparent {
					line[len(line)-1].pix = []color.NRGBA{}
				}
			}
			r := &line[len(line)-1]
			r.n++
			if !transparent {
				r.pix = append(r.pix, c)
			}
		}

		var total int
		for _, r := range line {
			total += r.n
		}
		if len(line) == 0 || total != b.Dx() {
			return nil, formatError(errLineLength, "line %d", y)
		}

		last := len(line) - 1
		if line[last].pix == nil && last > 0 && line[last-1].pix != nil && !line[last-1].eol {
			line = line[:last]
			last--
		}
		line[last].eol = true

		runs = append(runs, line...)
	}

	return runs, nil
}
