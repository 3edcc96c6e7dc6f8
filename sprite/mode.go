package sprite

import (
	"image/color"
)

// pixelMode converts between colors and the values stored in the blit
// stream. There is one implementation per Mode.
type pixelMode interface {
	mode() Mode
	// encodeRun maps an opaque run to its values.
	encodeRun(pix []color.NRGBA) ([]uint16, error)
	// decodeValue returns the pixels a value expands to. Only the first
	// is used unless pixelsPerValue is 2.
	decodeValue(v uint16) (color.NRGBA, color.NRGBA, bool)
	// valueSize is the size of one value in the stream in bytes.
	valueSize() int
	pixelsPerValue() int
}

type direct16Mode struct{}

func (direct16Mode) mode() Mode          { return Direct16 }
func (direct16Mode) valueSize() int      { return 2 }
func (direct16Mode) pixelsPerValue() int { return 1 }

func (direct16Mode) encodeRun(pix []color.NRGBA) ([]uint16, error) {
	vals := make([]uint16, len(pix))
	for i, c := range pix {
		vals[i] = rgbTo16(c)
	}
	return vals, nil
}

func (direct16Mode) decodeValue(v uint16) (color.NRGBA, color.NRGBA, bool) {
	c := rgbFrom16(v)
	return c, c, true
}

type indexed8Mode struct {
	palette []color.NRGBA
	index   map[color.NRGBA]uint8
}

func newIndexed8Mode(p color.Palette) (*indexed8Mode, error) {
	if len(p) > maxPalette {
		return nil, formatError(errPaletteSize, "%d colors", len(p))
	}
	m := &indexed8Mode{
		palette: make([]color.NRGBA, len(p)),
		index:   make(map[color.NRGBA]uint8, len(p)),
	}
	for i, c := range p {
		o := opaque(c)
		m.palette[i] = o
		// First entry wins for duplicated colors
		if _, ok := m.index[o]; !ok {
			m.index[o] = uint8(i)
		}
	}
	return m, nil
}

func (*indexed8Mode) mode() Mode          { return Indexed8 }
func (*indexed8Mode) valueSize() int      { return 1 }
func (*indexed8Mode) pixelsPerValue() int { return 1 }

func (m *indexed8Mode) encodeRun(pix []color.NRGBA) ([]uint16, error) {
	vals := make([]uint16, len(pix))
	for i, c := range pix {
		c.A = 0xff
		v, ok := m.index[c]
		if !ok {
			return nil, formatError(ErrPaletteMiss, "color #%02x%02x%02x", c.R, c.G, c.B)
		}
		vals[i] = uint16(v)
	}
	return vals, nil
}

func (m *indexed8Mode) decodeValue(v uint16) (color.NRGBA, color.NRGBA, bool) {
	if int(v) >= len(m.palette) {
		return color.NRGBA{}, color.NRGBA{}, false
	}
	c := m.palette[v]
	return c, c, true
}

type couplesMode struct {
	entries []uint32
	index   map[uint32]uint8
}

// Pack a run into pairs of 16-bit colors, the first pixel in the low half.
// An odd run repeats its last pixel.
func pairKeys(pix []color.NRGBA) []uint32 {
	keys := make([]uint32, 0, (len(pix)+1)/2)
	for i := 0; i < len(pix); i += 2 {
		a, b := pix[i], pix[i]
		if i+1 < len(pix) {
			b = pix[i+1]
		}
		keys = append(keys, uint32(rgbTo16(b))<<16|uint32(rgbTo16(a)))
	}
	return keys
}

func newCouplesMode(runs []run) *couplesMode {
	var keys []uint32
	for _, r := range runs {
		if r.pix != nil {
			keys = append(keys, pairKeys(r.pix)...)
		}
	}
	entries, index := clusterPairs(keys)
	return &couplesMode{entries: entries, index: index}
}

func (*couplesMode) mode() Mode          { return Couples }
func (*couplesMode) valueSize() int      { return 1 }
func (*couplesMode) pixelsPerValue() int { return 2 }

func (m *couplesMode) encodeRun(pix []color.NRGBA) ([]uint16, error) {
	keys := pairKeys(pix)
	vals := make([]uint16, len(keys))
	for i, k := range keys {
		vals[i] = uint16(m.index[k])
	}
	return vals, nil
}

func (m *couplesMode) decodeValue(v uint16) (color.NRGBA, color.NRGBA, bool) {
	if int(v) >= len(m.entries) {
		return color.NRGBA{}, color.NRGBA{}, false
	}
	e := m.entries[v]
	return rgbFrom16(uint16(e)), rgbFrom16(uint16(e >> 16)), true
}

func newPixelMode(o Options, runs []run) (pixelMode, error) {
	switch o.Mode {
	case Direct16:
		return direct16Mode{}, nil
	case Indexed8:
		return newIndexed8Mode(o.Palette)
	case Couples:
		return newCouplesMode(runs), nil
	}
	return nil, formatError(errUnknownMode, "%d", uint8(o.Mode))
}

// A valueRun is a run with its colors replaced by mode values. vals is nil
// for transparent runs. n stays counted in pixels.
type valueRun struct {
	n    int
	vals []uint16
	eol  bool
}

func encodeRuns(pm pixelMode, runs []run) ([]valueRun, error) {
	out := make([]valueRun, len(runs))
	for i, r := range runs {
		out[i] = valueRun{n: r.n, eol: r.eol}
		if r.pix == nil {
			continue
		}
		vals, err := pm.encodeRun(r.pix)
		if err != nil {
			return nil, err
		}
		out[i].vals = vals
	}
	return out, nil
}
