package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBTreeCacheGetSetDelete(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("base"), []byte("value")))

	cache := base.CacheWrap()

	// Reads pass through to the backing store.
	v, err := cache.Get([]byte("base"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	// Writes stay in the cache until Write is called.
	require.NoError(t, cache.Set([]byte("fresh"), []byte("data")))
	v, err = base.Get([]byte("fresh"))
	require.NoError(t, err)
	assert.Nil(t, v)

	has, err := cache.Has([]byte("fresh"))
	require.NoError(t, err)
	assert.True(t, has)

	// Deletes shadow the backing store.
	require.NoError(t, cache.Delete([]byte("base")))
	has, err = cache.Has([]byte("base"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = base.Has([]byte("base"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBTreeCacheWrite(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Write())

	v, err := base.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	has, err := base.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	cache.Discard()

	has, err := base.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)

	v, err := base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestBTreeCacheWrapRecursive(t *testing.T) {
	base := MemStore()
	level1 := base.CacheWrap()
	require.NoError(t, level1.Set([]byte("one"), []byte("1")))

	level2 := level1.CacheWrap()
	require.NoError(t, level2.Set([]byte("two"), []byte("2")))

	// Inner layer sees the outer layer state.
	v, err := level2.Get([]byte("one"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	// Writing the inner layer does not commit the outer one.
	require.NoError(t, level2.Write())
	has, err := level1.Has([]byte("two"))
	require.NoError(t, err)
	assert.True(t, has)
	has, err = base.Has([]byte("two"))
	require.NoError(t, err)
	assert.False(t, has)
}
