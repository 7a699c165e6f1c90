package iavl

import (
	"github.com/crosslock-one/crosslock/store"
	"github.com/tendermint/iavl"
)

// iterateRange materializes the requested range of the tree into a slice
// backed iterator. The iavl implementation exposes a callback based range
// walk, while the framework contract is a pull based iterator. Ranges read
// within a single block are small, so collecting them up front costs little.
func iterateRange(tree *iavl.MutableTree, start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(models)
}
