package iavl

import (
	"testing"

	"github.com/crosslock-one/crosslock/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreRoundTrip(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("escrow:1"), []byte("alice")))
	require.NoError(t, cache.Set([]byte("escrow:2"), []byte("bob")))
	require.NoError(t, cache.Write())

	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	v, err := s.Get([]byte("escrow:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), v)
}

func TestCommitStoreDiscardedCacheLeavesNoTrace(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("gone"), []byte("soon")))
	cache.Discard()

	if _, err := s.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	v, err := s.Get([]byte("gone"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCommitStoreIterator(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Set([]byte("c"), []byte("3")))
	require.NoError(t, cache.Write())

	// A fresh cache wrap must see the combined range.
	it, err := s.CacheWrap().Iterator([]byte("a"), []byte("c"))
	require.NoError(t, err)
	defer it.Release()

	var got []store.Model
	for {
		key, value, err := it.Next()
		if err != nil {
			break
		}
		got = append(got, store.Pair(key, value))
	}
	want := []store.Model{
		store.Pair([]byte("a"), []byte("1")),
		store.Pair([]byte("b"), []byte("2")),
	}
	assert.Equal(t, want, got)
}

func TestCommitStoreVersioning(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("k"), []byte("v1")))
	require.NoError(t, cache.Write())
	first, err := s.Commit()
	require.NoError(t, err)

	cache = s.CacheWrap()
	require.NoError(t, cache.Set([]byte("k"), []byte("v2")))
	require.NoError(t, cache.Write())
	second, err := s.Commit()
	require.NoError(t, err)

	assert.Equal(t, first.Version+1, second.Version)
	latest, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, second.Version, latest.Version)
}
