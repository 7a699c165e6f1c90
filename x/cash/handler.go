package cash

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/x"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r crosslock.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, migration.SchemaMigratingHandler("cash", SendHandler{
		auth:    auth,
		control: control,
	}))
}

// RegisterQuery will register the wallet bucket for querying.
func RegisterQuery(qr crosslock.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

const sendTxCost int64 = 100

// SendHandler moves coins between accounts on behalf of the signing source.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ crosslock.Handler = SendHandler{}

// Check verifies the transfer is authorized and affordable.
func (h SendHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the funds.
func (h SendHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &crosslock.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature required")
	}
	return &msg, nil
}
