package store

import (
	"bytes"

	"github.com/crosslock-one/crosslock/errors"
	"github.com/google/btree"
)

// ascendBtree collects all items of the cache layer that belong to a given
// ascending range. The amount of data cached within a single block is small
// enough to snapshot the range up front, which keeps the merge logic free of
// any synchronization.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	insert := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(insert)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, insert)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}

	return items
}

// descendBtree collects all items of the cache layer that belong to a given
// descending range.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	insert := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}

	if start == nil && end == nil {
		bt.Descend(insert)
	} else if start == nil { // end != nil
		bt.DescendLessOrEqual(bkeyLess{end}, insert)
	} else if end == nil { // start != nil
		bt.DescendGreaterThan(bkeyLess{start}, insert)
	} else { // both != nil
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
	}

	return items
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines the items of the cache layer with the iterator of the
// backing store, taking into consideration overwrites and deletes.
type itemIter struct {
	items   []keyer
	parent  Iterator
	reverse bool

	// one item lookahead of the parent iterator
	parentKey   []byte
	parentValue []byte
	parentDone  bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) (*itemIter, error) {
	iter := &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := iter.advanceParent(); err != nil {
		iter.Release()
		return nil, err
	}
	return iter, nil
}

// Next returns the next key-value pair of the combined iteration, skipping
// all entries that were deleted in the cache layer. It returns
// errors.ErrIteratorDone when both sources are exhausted.
func (i *itemIter) Next() ([]byte, []byte, error) {
	for {
		switch i.firstKey() {
		case none:
			return nil, nil, errors.ErrIteratorDone
		case parent:
			key, value := i.parentKey, i.parentValue
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		case us, both:
			item := i.items[0]
			i.items = i.items[1:]
			// The cache layer shadows the parent entry of the
			// same key.
			if bytes.Equal(item.Key(), i.parentKey) && !i.parentDone {
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
			if set, ok := item.(setItem); ok {
				return set.key, set.value, nil
			}
			// A deleted item hides the key, move on.
		}
	}
}

// Release frees both the cached snapshot and the parent iterator. It is safe
// to call more than once.
func (i *itemIter) Release() {
	i.items = nil
	i.parentDone = true
	if i.parent != nil {
		i.parent.Release()
		i.parent = nil
	}
}

// advanceParent moves the parent lookahead by one entry.
func (i *itemIter) advanceParent() error {
	if i.parent == nil {
		i.parentDone = true
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.parentKey, i.parentValue = key, value
	case errors.ErrIteratorDone.Is(err):
		i.parentKey, i.parentValue = nil, nil
		i.parentDone = true
	default:
		return err
	}
	return nil
}

// firstKey selects the source with the lowest key (highest when reversed).
func (i *itemIter) firstKey() source {
	if i.parentDone {
		if len(i.items) == 0 {
			return none
		}
		return us
	}
	if len(i.items) == 0 {
		return parent
	}

	cmp := bytes.Compare(i.parentKey, i.items[0].Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
