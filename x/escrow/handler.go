package escrow

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/x"
	"github.com/crosslock-one/crosslock/x/cash"
	"github.com/crosslock-one/crosslock/x/hashlock"
	"github.com/crosslock-one/crosslock/x/resolvers"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// pay escrow cost up-front
	createEscrowCost   int64 = 300
	withdrawEscrowCost int64 = 0
	cancelEscrowCost   int64 = 0
)

const (
	tagAction = "action"
	tagEscrow = "escrow"
	tagSecret = "secret"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r crosslock.Registry, auth x.Authenticator, control cash.Controller, allowList resolvers.Checker) {
	bucket := NewBucket()

	r.Handle(&CreateEscrowMsg{}, migration.SchemaMigratingHandler("escrow", CreateEscrowHandler{
		auth:      auth,
		bucket:    bucket,
		cash:      control,
		resolvers: allowList,
		source:    SwapAddress,
	}))
	r.Handle(&WithdrawMsg{}, migration.SchemaMigratingHandler("escrow", WithdrawHandler{
		auth:   auth,
		bucket: bucket,
		cash:   control,
	}))
	r.Handle(&CancelMsg{}, migration.SchemaMigratingHandler("escrow", CancelHandler{
		auth:   auth,
		bucket: bucket,
		cash:   control,
	}))
}

// RegisterQuery will register this bucket as "/escrows".
func RegisterQuery(qr crosslock.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateEscrowHandler creates and funds a new escrow instance. Creation is
// restricted to allow-listed resolvers and keyed by the order hash, so the
// same swap can never be registered twice.
type CreateEscrowHandler struct {
	auth      x.Authenticator
	bucket    Bucket
	cash      cash.Controller
	resolvers resolvers.Checker
	source    AddressSource
}

var _ crosslock.Handler = CreateEscrowHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h CreateEscrowHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver stores the escrow record and moves the amount plus the safety
// deposit from the maker wallet to the derived instance address. The record
// write and the transfer succeed or fail together under the savepoint.
func (h CreateEscrowHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}

	address := h.source(msg.OrderHash, msg.PreimageHash, msg.Maker, msg.Taker, *msg.Amount)

	esc := &Escrow{
		Metadata:      &crosslock.Metadata{Schema: 1},
		OrderHash:     msg.OrderHash,
		PreimageHash:  msg.PreimageHash,
		Maker:         msg.Maker,
		Taker:         msg.Taker,
		Amount:        msg.Amount,
		SafetyDeposit: msg.SafetyDeposit,
		DeployedAt:    now,
		Timelocks:     msg.Timelocks.Pack(),
		PayoutPolicy:  msg.PayoutPolicy,
		Address:       address,
		State:         StateOpen,
	}
	if err := h.bucket.Create(db, esc); err != nil {
		return nil, err
	}

	funding, err := fundingCoins(msg.Amount, msg.SafetyDeposit)
	if err != nil {
		return nil, err
	}
	for _, c := range funding {
		if err := h.cash.MoveCoins(db, msg.Maker, address, *c); err != nil {
			return nil, errors.Wrap(err, "cannot fund escrow")
		}
	}

	res := &crosslock.DeliverResult{Data: address}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("create")},
		common.KVPair{Key: []byte(tagEscrow), Value: msg.OrderHash},
	)
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateEscrowHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*CreateEscrowMsg, error) {
	var msg CreateEscrowMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// The maker funds the escrow and must approve.
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}

	// Creation is driven by an allow-listed resolver. The maker may be a
	// resolver itself.
	var authorized bool
	for _, signer := range x.GetAddresses(ctx, h.auth) {
		ok, err := h.resolvers.IsResolver(db, signer)
		if err != nil {
			return nil, errors.Wrap(err, "resolver lookup")
		}
		if ok {
			authorized = true
			break
		}
	}
	if !authorized {
		return nil, errors.Wrap(errors.ErrUnauthorized, "resolver signature required")
	}

	switch err := h.bucket.Has(db, msg.OrderHash); {
	case err == nil:
		return nil, errors.Wrapf(ErrDuplicateSwap, "order %X", msg.OrderHash)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	// Funding is verified up front so a failed creation cannot leave a
	// half funded instance behind.
	balance, err := h.cash.Balance(db, msg.Maker)
	switch {
	case errors.ErrEmpty.Is(err):
		return nil, errors.Wrap(ErrInsufficientFunding, "no maker wallet")
	case err != nil:
		return nil, errors.Wrap(err, "maker balance")
	}
	funding, err := fundingCoins(msg.Amount, msg.SafetyDeposit)
	if err != nil {
		return nil, err
	}
	for _, c := range funding {
		if !balance.Contains(*c) {
			return nil, errors.Wrapf(ErrInsufficientFunding, "missing %s", c)
		}
	}

	return &msg, nil
}

// fundingCoins combines the amount and the safety deposit into a normalized
// set so that same ticker values are summed before the balance check. A sum
// outside the coin range is an error, the deposit is never silently dropped.
func fundingCoins(amount, deposit *coin.Coin) (coin.Coins, error) {
	if deposit == nil || !deposit.IsPositive() {
		return coin.Coins{amount}, nil
	}
	combined, err := coin.CombineCoins(*amount, *deposit)
	if err != nil {
		return nil, errors.Wrap(err, "combine funding")
	}
	return combined, nil
}

// WithdrawHandler releases the escrowed funds to the entitled recipient in
// exchange for the secret.
type WithdrawHandler struct {
	auth   x.Authenticator
	bucket Bucket
	cash   cash.Controller
}

var _ crosslock.Handler = WithdrawHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h WithdrawHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: withdrawEscrowCost}, nil
}

// Deliver records the revealed secret, marks the escrow withdrawn and only
// then pays out. The mutation is persisted before any coin movement so that
// a failing transfer can never leave a paid out but still open escrow.
func (h WithdrawHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, esc, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	esc.Preimage = msg.Preimage
	esc.State = StateWithdrawn
	if err := h.bucket.Put(db, esc.OrderHash, esc); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	recipient := withdrawRecipient(esc, caller)
	if err := h.cash.MoveCoins(db, esc.Address, recipient, *esc.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot pay out")
	}
	if esc.SafetyDeposit != nil && esc.SafetyDeposit.IsPositive() {
		if err := h.cash.MoveCoins(db, esc.Address, caller, *esc.SafetyDeposit); err != nil {
			return nil, errors.Wrap(err, "cannot pay out deposit")
		}
	}

	res := &crosslock.DeliverResult{Data: esc.OrderHash}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("withdraw")},
		common.KVPair{Key: []byte(tagEscrow), Value: esc.OrderHash},
		common.KVPair{Key: []byte(tagSecret), Value: esc.Preimage},
	)
	return res, nil
}

// validate walks the withdrawal gates in a fixed order: terminal state,
// secret, finality lock, private window, public window, expiry.
func (h WithdrawHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*WithdrawMsg, *Escrow, crosslock.Address, error) {
	var msg WithdrawMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	var esc Escrow
	if err := h.bucket.One(db, msg.OrderHash, &esc); err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}

	if esc.State != StateOpen {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyTerminal, "state %s", esc.State)
	}
	if !hashlock.PreimageMatches(msg.Preimage, esc.PreimageHash) {
		return nil, nil, nil, errors.Wrap(ErrInvalidSecret, "preimage does not match commitment")
	}

	t, err := UnpackTimelocks(esc.Timelocks)
	if err != nil {
		return nil, nil, nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	caller := x.MainSigner(ctx, h.auth).Address()
	if caller == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	switch {
	case now < esc.boundary(t.Withdrawal):
		return nil, nil, nil, errors.Wrapf(ErrTooEarly, "withdrawal opens at %s", esc.boundary(t.Withdrawal))
	case now < esc.boundary(t.PublicWithdrawal):
		// Exclusivity period for the committed counterparty.
		if !h.auth.HasAddress(ctx, esc.Taker) {
			return nil, nil, nil, errors.Wrap(ErrPrivateWindow, "only the taker may withdraw")
		}
	case now < esc.boundary(t.Cancellation):
		// Public window, any caller may execute.
	default:
		return nil, nil, nil, errors.Wrapf(ErrWindowExpired, "withdrawal closed at %s", esc.boundary(t.Cancellation))
	}

	return &msg, &esc, caller, nil
}

// withdrawRecipient resolves the payout policy. PayoutToCounterparty sends
// the amount to the counterparty of the acting side, PayoutToCaller to
// whoever executed the call.
func withdrawRecipient(esc *Escrow, caller crosslock.Address) crosslock.Address {
	switch esc.PayoutPolicy {
	case PayoutToCaller:
		return caller
	default:
		if caller.Equals(esc.Maker) {
			return esc.Taker
		}
		return esc.Maker
	}
}

// CancelHandler returns the escrowed funds to the maker after the
// cancellation boundary.
type CancelHandler struct {
	auth   x.Authenticator
	bucket Bucket
	cash   cash.Controller
}

var _ crosslock.Handler = CancelHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h CancelHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver marks the escrow cancelled before returning the amount and the
// safety deposit to the maker.
func (h CancelHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	_, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	esc.State = StateCancelled
	if err := h.bucket.Put(db, esc.OrderHash, esc); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	if err := h.cash.MoveCoins(db, esc.Address, esc.Maker, *esc.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot return funds")
	}
	if esc.SafetyDeposit != nil && esc.SafetyDeposit.IsPositive() {
		if err := h.cash.MoveCoins(db, esc.Address, esc.Maker, *esc.SafetyDeposit); err != nil {
			return nil, errors.Wrap(err, "cannot return deposit")
		}
	}

	res := &crosslock.DeliverResult{Data: esc.OrderHash}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("cancel")},
		common.KVPair{Key: []byte(tagEscrow), Value: esc.OrderHash},
	)
	return res, nil
}

// validate walks the cancellation gates in a fixed order: terminal state,
// cancellation boundary, private window. The public cancellation window
// never closes.
func (h CancelHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var esc Escrow
	if err := h.bucket.One(db, msg.OrderHash, &esc); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}

	if esc.State != StateOpen {
		return nil, nil, errors.Wrapf(ErrAlreadyTerminal, "state %s", esc.State)
	}

	t, err := UnpackTimelocks(esc.Timelocks)
	if err != nil {
		return nil, nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case now < esc.boundary(t.Cancellation):
		return nil, nil, errors.Wrapf(ErrTooEarly, "cancellation opens at %s", esc.boundary(t.Cancellation))
	case now < esc.boundary(t.PublicCancellation):
		// Exclusivity period for the maker.
		if !h.auth.HasAddress(ctx, esc.Maker) {
			return nil, nil, errors.Wrap(ErrPrivateWindow, "only the maker may cancel")
		}
	}

	return &msg, &esc, nil
}

// blockNow returns the current block time as UnixTime.
func blockNow(ctx crosslock.Context) (crosslock.UnixTime, error) {
	t, err := crosslock.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}
	return crosslock.AsUnixTime(t), nil
}
