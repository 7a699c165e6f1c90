package migration

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ crosslock.Initializer = Initializer{}

// FromGenesis will parse initial extension configuration from genesis and
// save it to the database
func (Initializer) FromGenesis(opts crosslock.Options, kv crosslock.KVStore) error {
	if err := gconf.InitConfig(kv, opts, "migration", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
