package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache_GetOrRender(t *testing.T) {
	cache, err := FromMemory(0)
	require.NoError(t, err)
	defer cache.Close()

	renders := 0
	render := func() ([]byte, error) {
		renders++
		return []byte{0x89, 'P', 'N', 'G', 0x00}, nil
	}

	first, err := cache.GetOrRender("raw:price", render)
	require.NoError(t, err)
	second, err := cache.GetOrRender("raw:price", render)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', 0x00}, second)
	assert.Equal(t, 1, renders)

	count, err := cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSnapshotCache_RenderError(t *testing.T) {
	cache, err := FromMemory(0)
	require.NoError(t, err)
	defer cache.Close()

	failure := errors.New("boom")
	_, err = cache.GetOrRender("key", func() ([]byte, error) { return nil, failure })
	require.ErrorIs(t, err, failure)

	_, ok, err := cache.Get("key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotCache_Expires(t *testing.T) {
	cache, err := FromMemory(50 * time.Millisecond)
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set("key", []byte("content")))

	_, ok, err := cache.Get("key")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(150 * time.Millisecond)

	_, ok, err = cache.Get("key")
	require.NoError(t, err)
	assert.False(t, ok)
}
