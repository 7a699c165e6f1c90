package resolvers

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/gconf"
	"github.com/crosslock-one/crosslock/migration"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ crosslock.Initializer = Initializer{}

// FromGenesis will parse initial access control setup from the genesis and
// save it in the database.
func (Initializer) FromGenesis(opts crosslock.Options, kv crosslock.KVStore) error {
	migration.MustInitPkg(kv, packageName)
	var ac AccessControl
	if err := gconf.InitConfig(kv, opts, packageName, &ac); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
