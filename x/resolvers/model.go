package resolvers

import (
	"fmt"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/gconf"
	"github.com/crosslock-one/crosslock/migration"
)

func init() {
	migration.MustRegister(1, &AccessControl{}, migration.NoModification)
}

const packageName = "resolvers"

func (ac *AccessControl) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", ac.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", ac.Owner.Validate())
	for i, r := range ac.Resolvers {
		errs = errors.AppendField(errs, fmt.Sprintf("Resolvers.%d", i), r.Validate())
	}
	return errs
}

// IsResolver returns true if the address is on the allow list.
func (ac *AccessControl) IsResolver(addr crosslock.Address) bool {
	for _, r := range ac.Resolvers {
		if r.Equals(addr) {
			return true
		}
	}
	return false
}

func loadAccessControl(db gconf.ReadStore) (*AccessControl, error) {
	var ac AccessControl
	if err := gconf.Load(db, packageName, &ac); err != nil {
		return nil, errors.Wrap(err, "load access control")
	}
	return &ac, nil
}

// Checker tells whether an address belongs to the resolver allow list. It is
// the only surface other packages should depend on.
type Checker interface {
	IsResolver(db crosslock.ReadOnlyKVStore, addr crosslock.Address) (bool, error)
}

// AllowList is a Checker backed by the stored AccessControl singleton.
type AllowList struct{}

var _ Checker = AllowList{}

func NewChecker() AllowList {
	return AllowList{}
}

func (AllowList) IsResolver(db crosslock.ReadOnlyKVStore, addr crosslock.Address) (bool, error) {
	ac, err := loadAccessControl(db)
	if err != nil {
		return false, err
	}
	return ac.IsResolver(addr), nil
}
