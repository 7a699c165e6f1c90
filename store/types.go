//nolint
package store

import "github.com/crosslock-one/crosslock"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = crosslock.ReadOnlyKVStore
type KVStore = crosslock.KVStore
type SetDeleter = crosslock.SetDeleter
type Batch = crosslock.Batch
type Iterator = crosslock.Iterator
type CacheableKVStore = crosslock.CacheableKVStore
type KVCacheWrap = crosslock.KVCacheWrap
type CommitKVStore = crosslock.CommitKVStore
type CommitID = crosslock.CommitID

type Model = crosslock.Model

// Pair constructs a model from a key-value pair.
var Pair = crosslock.Pair
