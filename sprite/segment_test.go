package sprite

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineOf(pix ...color.NRGBA) func(x, y int) color.NRGBA {
	return func(x, _ int) color.NRGBA { return pix[x] }
}

func TestSegmentLines(t *testing.T) {
	tests := []struct {
		name string
		line []color.NRGBA
		runs []run
	}{
		{
			"all transparent",
			[]color.NRGBA{transparent, transparent, transparent},
			[]run{{n: 3, eol: true}},
		},
		{
			"all opaque",
			[]color.NRGBA{red, red},
			[]run{{n: 2, pix: []color.NRGBA{red, red}, eol: true}},
		},
		{
			"trailing skip folded",
			[]color.NRGBA{transparent, red, blue, transparent, transparent},
			[]run{{n: 1}, {n: 2, pix: []color.NRGBA{red, blue}, eol: true}},
		},
		{
			"alternating",
			[]color.NRGBA{red, transparent, blue},
			[]run{{n: 1, pix: []color.NRGBA{red}}, {n: 1}, {n: 1, pix: []color.NRGBA{blue}, eol: true}},
		},
		{
			"alpha threshold",
			[]color.NRGBA{{0xff, 0, 0, 126}, {0xff, 0, 0, 127}},
			[]run{{n: 1}, {n: 1, pix: []color.NRGBA{{0xff, 0, 0, 127}}, eol: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFrame(len(tt.line), 1, lineOf(tt.line...))
			runs, err := segmentLines(m)
			require.NoError(t, err)
			assert.Equal(t, tt.runs, runs)
		})
	}
}

func TestSegmentLinesOneEOLPerLine(t *testing.T) {
	m := newFrame(5, 3, func(x, y int) color.NRGBA {
		if (x+y)%2 == 0 {
			return red
		}
		return transparent
	})
	runs, err := segmentLines(m)
	require.NoError(t, err)

	var lines, pixels int
	for _, r := range runs {
		pixels += r.n
		if r.eol {
			lines++
		}
	}
	assert.Equal(t, 3, lines)
	// Line 1 ends with a skip that is folded away
	assert.Equal(t, 14, pixels)
	assert.True(t, runs[len(runs)-1].eol)
}
