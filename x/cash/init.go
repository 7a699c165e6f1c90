package cash

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from the genesis file.
type GenesisAccount struct {
	Address crosslock.Address `json:"address"`
	Coins   coin.Coins        `json:"coins"`
}

// Initializer fulfils the Initializer interface to load wallet balances from
// the genesis file.
type Initializer struct{}

var _ crosslock.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis and save it to the
// database.
func (Initializer) FromGenesis(opts crosslock.Options, kv crosslock.KVStore) error {
	migration.MustInitPkg(kv, "cash")

	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(err, "read genesis accounts")
	}
	bucket := NewBucket()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "genesis account address %q", acct.Address)
		}
		wallet, err := WalletWith(acct.Address, acct.Coins...)
		if err != nil {
			return errors.Wrap(err, "genesis account wallet")
		}
		if err := bucket.Save(kv, wallet); err != nil {
			return errors.Wrap(err, "save genesis wallet")
		}
	}
	return nil
}
