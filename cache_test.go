package bitbox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.Nil(t, err)
	defer c.Close()

	data, err := c.Find("ABCD")
	assert.Nil(t, err)
	assert.Nil(t, data)

	require.Nil(t, c.Store("ABCD", []byte{1, 2, 3}))
	require.Nil(t, c.Store("ABCD", []byte{4, 5}))
	require.Nil(t, c.Store("EF01", []byte{6}))

	data, err = c.Find("ABCD")
	assert.Nil(t, err)
	assert.Equal(t, []byte{4, 5}, data)

	n, err := c.Len()
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	require.Nil(t, c.Purge())
	n, err = c.Len()
	assert.Nil(t, err)
	assert.Equal(t, 0, n)
}

func TestCacheReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewCache(file)
	require.Nil(t, err)
	require.Nil(t, c.Store("ABCD", []byte{1}))
	require.Nil(t, c.Close())

	c, err = NewCache(file)
	require.Nil(t, err)
	defer c.Close()

	data, err := c.Find("ABCD")
	assert.Nil(t, err)
	assert.Equal(t, []byte{1}, data)
}
