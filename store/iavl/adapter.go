package iavl

import (
	"github.com/crosslock-one/crosslock/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// cacheSize is the number of tree nodes the iavl implementation holds in
// memory.
const cacheSize = 10000

// CommitStore manages a merkle tree with committed, versioned state.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a merkle store with disk backing in the given
// directory. The name is used as the database file name.
func NewCommitStore(dir, name string) *CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	return &CommitStore{
		tree: iavl.NewMutableTree(db, cacheSize),
	}
}

// MemCommitStore creates a merkle store without persistence, for tests.
func MemCommitStore() *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(dbm.NewMemDB(), cacheSize),
	}
}

// Get returns the value stored under given key in the working state.
// Returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// CacheWrap returns a scratch-pad on top of the working tree state. Call
// Write on the result to move the changes into the tree, then Commit on this
// store to persist them as a new version.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	adp := adapter{tree: s.tree}
	return store.NewBTreeCacheWrap(adp, store.NewNonAtomicBatch(adp), nil)
}

// Commit saves the working tree state to disk as the next version and
// returns info on the committed state.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, err
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return err
}

// LatestVersion returns info on the latest version saved to disk.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// LoadVersion loads a specific persisted version. When you load an old
// version, or when the last commit was interrupted, the next commit
// overwrites all dangling state.
func (s *CommitStore) LoadVersion(ver int64) error {
	_, err := s.tree.LoadVersionForOverwriting(ver)
	return err
}

// adapter exposes the mutable iavl tree through the KVStore interface so that
// the generic btree cache can stage changes on top of it.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, value := a.tree.Get(key)
	return value, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return iterateRange(a.tree, start, end, true), nil
}

func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return iterateRange(a.tree, start, end, false), nil
}
