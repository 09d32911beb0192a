package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleCacheRoundTrip(t *testing.T) {
	cache, err := NewOracleCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	distances := []uint64{0, 7, 42, 1 << 40}
	require.NoError(t, cache.Put("akaze", 12, 1024, distances))

	got, ok, err := cache.Get("akaze", 12, 1024)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, distances, got)
}

func TestOracleCacheMiss(t *testing.T) {
	cache, err := NewOracleCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	_, ok, err := cache.Get("akaze", 3, 64)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOracleCacheKeyedByWindow(t *testing.T) {
	cache, err := NewOracleCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Put("akaze", 4, 64, []uint64{1}))
	require.NoError(t, cache.Put("akaze", 5, 64, []uint64{2}))
	require.NoError(t, cache.Put("other", 4, 64, []uint64{3}))

	got, ok, err := cache.Get("akaze", 4, 64)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint64{1}, got)

	got, ok, err = cache.Get("other", 4, 64)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint64{3}, got)
}
