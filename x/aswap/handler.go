package aswap

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
	// pay order cost up-front
	createOrderCost   int64 = 300
	completeOrderCost int64 = 0
	claimOrderCost    int64 = 0
	refundOrderCost   int64 = 0
)

const (
	tagAction = "action"
	tagOrder  = "aswap"
	tagSecret = "secret"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r crosslock.Registry, auth x.Authenticator, control cash.Controller, allowList resolvers.Checker) {
	bucket := NewBucket()

	r.Handle(&CreateOrderMsg{}, migration.SchemaMigratingHandler("aswap", CreateOrderHandler{
		auth:   auth,
		bucket: bucket,
		cash:   control,
	}))
	r.Handle(&CompleteOrderMsg{}, migration.SchemaMigratingHandler("aswap", CompleteOrderHandler{
		auth:      auth,
		bucket:    bucket,
		resolvers: allowList,
	}))
	r.Handle(&ClaimMsg{}, migration.SchemaMigratingHandler("aswap", ClaimHandler{
		auth:      auth,
		bucket:    bucket,
		cash:      control,
		resolvers: allowList,
	}))
	r.Handle(&RefundOrderMsg{}, migration.SchemaMigratingHandler("aswap", RefundOrderHandler{
		auth:   auth,
		bucket: bucket,
		cash:   control,
	}))
}

// RegisterQuery will register this bucket as "/aswaps".
func RegisterQuery(qr crosslock.QueryRouter) {
	NewBucket().Register("aswaps", qr)
}

// CreateOrderHandler registers a new order and locks the amount from the
// source wallet into the order address.
type CreateOrderHandler struct {
	auth   x.Authenticator
	bucket Bucket
	cash   cash.Controller
}

var _ crosslock.Handler = CreateOrderHandler{}

// Check does the validation and sets the cost of the transaction.
func (h CreateOrderHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: createOrderCost}, nil
}

// Deliver stores the order and moves the amount to the order address.
func (h CreateOrderHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	seq, err := orderSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire sequence")
	}
	orderID := OrderID(msg.Source, msg.PreimageHash, seq)

	order := &Order{
		Metadata:           msg.Metadata,
		Source:             msg.Source,
		DestinationChainID: msg.DestinationChainID,
		DestinationToken:   msg.DestinationToken,
		PreimageHash:       msg.PreimageHash,
		Amount:             msg.Amount,
		Timeout:            msg.Timeout,
		Memo:               msg.Memo,
		Address:            OrderAddress(orderID),
	}
	if err := h.bucket.Create(db, orderID, order); err != nil {
		return nil, errors.Wrap(err, "cannot store order")
	}

	if err := h.cash.MoveCoins(db, order.Source, order.Address, *order.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot lock funds")
	}

	res := &crosslock.DeliverResult{Data: orderID}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("create")},
		common.KVPair{Key: []byte(tagOrder), Value: orderID},
	)
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateOrderHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*CreateOrderMsg, error) {
	var msg CreateOrderMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// The source wallet is charged and must approve.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature required")
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	floor := now.Add(MinTimeout)
	if msg.Timeout < floor {
		return nil, errors.Wrapf(errors.ErrInput, "timeout must be at least %s, in %s", floor, MinTimeout)
	}

	return &msg, nil
}

// CompleteOrderHandler records the revealed secret on an order. This moves
// no funds, a subsequent claim does.
type CompleteOrderHandler struct {
	auth      x.Authenticator
	bucket    Bucket
	resolvers resolvers.Checker
}

var _ crosslock.Handler = CompleteOrderHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h CompleteOrderHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: completeOrderCost}, nil
}

// Deliver records the secret and the completion time.
func (h CompleteOrderHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, order, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	order.Preimage = msg.Preimage
	order.CompletedAt = now
	if err := h.bucket.Put(db, msg.OrderID, order); err != nil {
		return nil, errors.Wrap(err, "cannot store order")
	}

	res := &crosslock.DeliverResult{Data: msg.OrderID}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("complete")},
		common.KVPair{Key: []byte(tagOrder), Value: msg.OrderID},
		common.KVPair{Key: []byte(tagSecret), Value: msg.Preimage},
	)
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CompleteOrderHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*CompleteOrderMsg, *Order, error) {
	var msg CompleteOrderMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	if err := requireResolver(ctx, db, h.auth, h.resolvers); err != nil {
		return nil, nil, err
	}

	var order Order
	if err := h.bucket.One(db, msg.OrderID, &order); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load order from the store")
	}

	if order.CompletedAt != 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "already completed")
	}
	if order.RefundedAt != 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "already refunded")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	// The timeout itself still belongs to the completion range.
	if now > order.Timeout {
		return nil, nil, errors.Wrapf(errors.ErrExpired, "timeout %s passed", order.Timeout)
	}
	if !hashlock.PreimageMatches(msg.Preimage, order.PreimageHash) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "preimage does not match commitment")
	}

	return &msg, &order, nil
}

// ClaimHandler moves locked funds of a completed order out to the claiming
// resolver. Several partial claims are allowed, the running total never
// exceeds the order amount.
type ClaimHandler struct {
	auth      x.Authenticator
	bucket    Bucket
	cash      cash.Controller
	resolvers resolvers.Checker
}

var _ crosslock.Handler = ClaimHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h ClaimHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: claimOrderCost}, nil
}

// Deliver raises the claimed total before moving the coins out.
func (h ClaimHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, order, claimed, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	caller := x.MainSigner(ctx, h.auth).Address()

	order.Claimed = &claimed
	if err := h.bucket.Put(db, msg.OrderID, order); err != nil {
		return nil, errors.Wrap(err, "cannot store order")
	}

	if err := h.cash.MoveCoins(db, order.Address, caller, *msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot move funds")
	}

	res := &crosslock.DeliverResult{Data: msg.OrderID}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("claim")},
		common.KVPair{Key: []byte(tagOrder), Value: msg.OrderID},
	)
	return res, nil
}

// validate does all common pre-processing between Check and Deliver. The
// returned coin is the new cumulative claimed total.
func (h ClaimHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*ClaimMsg, *Order, coin.Coin, error) {
	var zero coin.Coin
	var msg ClaimMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, zero, errors.Wrap(err, "load msg")
	}

	if err := requireResolver(ctx, db, h.auth, h.resolvers); err != nil {
		return nil, nil, zero, err
	}

	var order Order
	if err := h.bucket.One(db, msg.OrderID, &order); err != nil {
		return nil, nil, zero, errors.Wrap(err, "cannot load order from the store")
	}

	if order.CompletedAt == 0 {
		return nil, nil, zero, errors.Wrap(errors.ErrState, "not completed")
	}

	claimed := coin.Coin{Ticker: order.Amount.Ticker}
	if order.Claimed != nil {
		claimed = *order.Claimed
	}
	claimed, err := claimed.Add(*msg.Amount)
	if err != nil {
		return nil, nil, zero, errors.Wrap(err, "cannot add claim")
	}
	if left, err := order.Amount.Subtract(claimed); err != nil || !left.IsNonNegative() {
		return nil, nil, zero, errors.Wrapf(errors.ErrAmount, "claim exceeds order amount %s", order.Amount)
	}

	return &msg, &order, claimed, nil
}

// RefundOrderHandler returns the locked funds of an expired, uncompleted
// order to its depositor.
type RefundOrderHandler struct {
	auth   x.Authenticator
	bucket Bucket
	cash   cash.Controller
}

var _ crosslock.Handler = RefundOrderHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h RefundOrderHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crosslock.CheckResult{GasAllocated: refundOrderCost}, nil
}

// Deliver marks the order refunded before returning everything still locked
// to the depositor.
func (h RefundOrderHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, order, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	order.RefundedAt = now
	if err := h.bucket.Put(db, msg.OrderID, order); err != nil {
		return nil, errors.Wrap(err, "cannot store order")
	}

	available, err := h.cash.Balance(db, order.Address)
	if err != nil {
		return nil, errors.Wrap(err, "order balance")
	}
	for _, c := range available {
		if err := h.cash.MoveCoins(db, order.Address, order.Source, *c); err != nil {
			return nil, errors.Wrap(err, "cannot return funds")
		}
	}

	res := &crosslock.DeliverResult{Data: msg.OrderID}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(tagAction), Value: []byte("refund")},
		common.KVPair{Key: []byte(tagOrder), Value: msg.OrderID},
	)
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundOrderHandler) validate(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*RefundOrderMsg, *Order, error) {
	var msg RefundOrderMsg
	if err := crosslock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var order Order
	if err := h.bucket.One(db, msg.OrderID, &order); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load order from the store")
	}

	// Only the depositor gets the funds back.
	if !h.auth.HasAddress(ctx, order.Source) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "source signature required")
	}

	if order.CompletedAt != 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "already completed")
	}
	if order.RefundedAt != 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "already refunded")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	// Refund opens strictly after the timeout, the complement of the
	// completion range.
	if now <= order.Timeout {
		return nil, nil, errors.Wrapf(errors.ErrState, "order not expired, timeout %s", order.Timeout)
	}

	return &msg, &order, nil
}

// requireResolver ensures at least one signer is on the resolver allow
// list.
func requireResolver(ctx crosslock.Context, db crosslock.KVStore, auth x.Authenticator, checker resolvers.Checker) error {
	for _, signer := range x.GetAddresses(ctx, auth) {
		ok, err := checker.IsResolver(db, signer)
		if err != nil {
			return errors.Wrap(err, "resolver lookup")
		}
		if ok {
			return nil
		}
	}
	return errors.Wrap(errors.ErrUnauthorized, "resolver signature required")
}

// blockNow returns the current block time as UnixTime.
func blockNow(ctx crosslock.Context) (crosslock.UnixTime, error) {
	t, err := crosslock.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}
	return crosslock.AsUnixTime(t), nil
}
