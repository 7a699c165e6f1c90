package resolvers

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/gconf"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/x"
	"github.com/tendermint/tendermint/libs/common"
)

const updateResolversCost = 50

const (
	tagAuthorize   = "authorize"
	tagDeauthorize = "deauthorize"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r crosslock.Registry, auth x.Authenticator) {
	r.Handle(&UpdateResolversMsg{}, migration.SchemaMigratingHandler(packageName,
		UpdateResolversHandler{auth: auth}))
}

// UpdateResolversHandler modifies the allow list. Only the current owner can
// do that.
type UpdateResolversHandler struct {
	auth x.Authenticator
}

var _ crosslock.Handler = UpdateResolversHandler{}

func (h UpdateResolversHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: updateResolversCost}, nil
}

func (h UpdateResolversHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	ac, tags, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Save(db, packageName, ac); err != nil {
		return nil, errors.Wrap(err, "save access control")
	}
	return &crosslock.DeliverResult{Tags: tags}, nil
}

// validate applies the requested changes to an in memory copy of the access
// control so that both Check and Deliver reject the same transactions.
// Nothing is persisted here.
func (h UpdateResolversHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*AccessControl, []common.KVPair, error) {
	var msg UpdateResolversMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	ac, err := loadAccessControl(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, ac.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}

	var tags []common.KVPair
	for _, a := range msg.Authorize {
		if ac.IsResolver(a) {
			return nil, nil, errors.Wrapf(errors.ErrDuplicate, "resolver %s", a)
		}
		ac.Resolvers = append(ac.Resolvers, a)
		tags = append(tags, common.KVPair{Key: []byte(tagAuthorize), Value: a})
	}
	for _, a := range msg.Deauthorize {
		if err := removeResolver(ac, a); err != nil {
			return nil, nil, err
		}
		tags = append(tags, common.KVPair{Key: []byte(tagDeauthorize), Value: a})
	}
	return ac, tags, nil
}

func removeResolver(ac *AccessControl, addr crosslock.Address) error {
	for i, r := range ac.Resolvers {
		if r.Equals(addr) {
			ac.Resolvers = append(ac.Resolvers[:i], ac.Resolvers[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(errors.ErrNotFound, "resolver %s", addr)
}
