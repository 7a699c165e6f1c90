package cash

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

func init() {
	migration.MustRegister(1, &Set{}, migration.NoModification)
}

var _ orm.CloneableData = (*Set)(nil)

// Validate requires that all coins are in alphabetical order
func (s *Set) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return coin.Coins(s.Coins).Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    coin.Coins(s.Coins).Clone(),
	}
}

// AsCoins extracts the coins stored in a wallet object.
func AsCoins(obj orm.Object) coin.Coins {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	set := obj.Value().(*Set)
	return coin.Coins(set.GetCoins())
}

// NewWallet creates an empty wallet with this address serves as an object for
// the bucket.
func NewWallet(key crosslock.Address) orm.Object {
	return orm.NewSimpleObj(key, &Set{
		Metadata: &crosslock.Metadata{Schema: 1},
	})
}

// WalletWith creates an wallet with a balance.
func WalletWith(key crosslock.Address, coins ...*coin.Coin) (orm.Object, error) {
	obj := NewWallet(key)
	err := Concat(obj, coins)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Add modifies the wallet to add the given coin.
func Add(wallet orm.Object, c coin.Coin) error {
	cs, err := AsCoins(wallet).Add(c)
	if err != nil {
		return err
	}
	wallet.Value().(*Set).Coins = cs
	return nil
}

// Subtract modifies the wallet to remove the given coin.
func Subtract(wallet orm.Object, c coin.Coin) error {
	return Add(wallet, c.Negative())
}

// Concat combines the coins to make sure they are sorted and rounded off,
// with no duplicates or 0 values.
func Concat(wallet orm.Object, coins coin.Coins) error {
	joint, err := AsCoins(wallet).Combine(coins)
	if err != nil {
		return err
	}
	wallet.Value().(*Set).Coins = joint
	return nil
}

// WalletBucket is what we expect to be able to do with wallets. The bucket
// can only return a nil wallet if the error is set.
type WalletBucket interface {
	GetOrCreate(db crosslock.KVStore, key crosslock.Address) (orm.Object, error)
	Get(db crosslock.ReadOnlyKVStore, key []byte) (orm.Object, error)
	Save(db crosslock.KVStore, obj orm.Object) error
}

// Bucket is a type-safe wrapper around orm.Bucket that handles schema
// migration on load and save.
type Bucket struct {
	migration.Bucket
}

var _ WalletBucket = Bucket{}

// NewBucket initializes a cash.Bucket with the default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: migration.NewBucket("cash", BucketName, &Set{}),
	}
}

// GetOrCreate gets the wallet for the given key, returning an empty wallet
// if none was stored before.
func (b Bucket) GetOrCreate(db crosslock.KVStore, key crosslock.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}
