package orm

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := []struct {
		bucket     string
		name       string
		increments int64
	}{
		0: {"rcpts", "id", 22},
		1: {"rcpts", "seq", 11},
		2: {"rcpts", "id", 18},
		3: {"orders", "id", 77},
		4: {"rcpts", "seq", 248},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			s := NewSequence(tc.bucket, tc.name)
			_, orig, err := s.Latest(db)
			assert.Nil(t, err)

			var val int64
			for i := int64(0); i < tc.increments; i++ {
				val, err = s.NextInt(db)
				assert.Nil(t, err)
			}

			// make sure final value is bigger than original value
			// if we use the raw bytes to index stuff
			latest, last, err := s.Latest(db)
			assert.Nil(t, err)
			assert.Equal(t, val, latest)
			if orig != nil && bytes.Compare(last, orig) != 1 {
				t.Fatalf("sequence state did not grow: %X -> %X", orig, last)
			}
		})
	}
}

func TestSequenceState(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("cnts", "id")

	val, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), val)

	bz, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), DecodeSequence(bz))

	// Latest does not modify the state.
	latest, raw, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), latest)
	assert.Equal(t, bz, raw)
}
