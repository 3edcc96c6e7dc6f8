package sprite

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKeys(t *testing.T) {
	assert.Equal(t, []uint32{0x03e07c00, 0x001f001f}, pairKeys([]color.NRGBA{red, green, blue}))
	assert.Equal(t, []uint32{0x7fff7fff}, pairKeys([]color.NRGBA{white}))
}

func TestClusterPairsExact(t *testing.T) {
	keys := []uint32{7, 3, 7, 9, 3}
	entries, index := clusterPairs(keys)
	assert.Equal(t, []uint32{7, 3, 9}, entries)
	assert.Equal(t, map[uint32]uint8{7: 0, 3: 1, 9: 2}, index)
}

func TestClusterPairsReduces(t *testing.T) {
	var keys []uint32
	for i := 0; i < 2000; i++ {
		a := uint32(i*37) & 0x7fff
		b := uint32(i*101+5) & 0x7fff
		keys = append(keys, b<<16|a)
		if i%3 == 0 {
			keys = append(keys, b<<16|a)
		}
	}

	entries, index := clusterPairs(keys)
	require.Len(t, entries, maxCouples)
	for _, k := range keys {
		i, ok := index[k]
		require.True(t, ok)
		assert.Less(t, int(i), len(entries))
	}

	// Deterministic
	again, _ := clusterPairs(keys)
	assert.Equal(t, entries, again)
}

func TestPairBoxMean(t *testing.T) {
	b := newPairBox([]pairPoint{
		newPairPoint(0x00000000, 3),
		newPairPoint(0x7fff7fff, 1),
	})
	// (0*3 + 31*1 + 2) / 4 = 8 for every component
	assert.Equal(t, uint32(0x21082108), b.mean())
}
