package aswap

import (
	"context"
	"testing"
	"time"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/gconf"
	"github.com/crosslock-one/crosslock/locktest"
	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/store"
	"github.com/crosslock-one/crosslock/x/cash"
	"github.com/crosslock-one/crosslock/x/hashlock"
	"github.com/crosslock-one/crosslock/x/resolvers"
)

// orderFixture wires a fresh store with a funded source wallet and an
// allow-listed resolver. Orders time out at 4600, created at 1000.
type orderFixture struct {
	db      crosslock.CacheableKVStore
	control cash.Controller
	bucket  Bucket

	source   crosslock.Condition
	resolver crosslock.Condition
	stranger crosslock.Condition

	preimage []byte
	msg      *CreateOrderMsg
}

func newOrderFixture(t testing.TB) *orderFixture {
	t.Helper()

	db := store.MemStore()
	migration.MustInitPkg(db, "cash", "aswap", "resolvers")

	f := &orderFixture{
		db:       db,
		control:  cash.NewController(cash.NewBucket()),
		bucket:   NewBucket(),
		source:   locktest.NewCondition(),
		resolver: locktest.NewCondition(),
		stranger: locktest.NewCondition(),
		preimage: []byte("order ledger secret"),
	}

	assert.Nil(t, f.control.CoinMint(db, f.source.Address(), coin.NewCoin(1000, 0, "IOV")))

	ac := resolvers.AccessControl{
		Metadata:  &crosslock.Metadata{Schema: 1},
		Owner:     locktest.NewCondition().Address(),
		Resolvers: []crosslock.Address{f.resolver.Address()},
	}
	assert.Nil(t, gconf.Save(db, "resolvers", &ac))

	f.msg = &CreateOrderMsg{
		Metadata:           &crosslock.Metadata{Schema: 1},
		Source:             f.source.Address(),
		DestinationChainID: "eth-mainnet",
		DestinationToken:   "DAI",
		PreimageHash:       hashlock.Hash(f.preimage),
		Amount:             coin.NewCoinp(100, 0, "IOV"),
		Timeout:            4600,
	}
	return f
}

func (f *orderFixture) ctxAt(now int64) crosslock.Context {
	return crosslock.WithBlockTime(context.Background(), time.Unix(now, 0))
}

// create runs the create handler at the given time and returns the order ID.
func (f *orderFixture) create(t testing.TB, now int64) []byte {
	t.Helper()
	h := CreateOrderHandler{
		auth:   &locktest.Auth{Signer: f.source},
		bucket: f.bucket,
		cash:   f.control,
	}
	res, err := h.Deliver(f.ctxAt(now), f.db, &locktest.Tx{Msg: f.msg})
	if err != nil {
		t.Fatalf("cannot create order: %+v", err)
	}
	return res.Data
}

// complete records the secret as the resolver.
func (f *orderFixture) complete(t testing.TB, now int64, orderID []byte) {
	t.Helper()
	h := CompleteOrderHandler{
		auth:      &locktest.Auth{Signer: f.resolver},
		bucket:    f.bucket,
		resolvers: resolvers.NewChecker(),
	}
	tx := &locktest.Tx{Msg: &CompleteOrderMsg{
		Metadata: &crosslock.Metadata{Schema: 1},
		OrderID:  orderID,
		Preimage: f.preimage,
	}}
	if _, err := h.Deliver(f.ctxAt(now), f.db, tx); err != nil {
		t.Fatalf("cannot complete order: %+v", err)
	}
}

func (f *orderFixture) claimHandler(signer crosslock.Condition) ClaimHandler {
	return ClaimHandler{
		auth:      &locktest.Auth{Signer: signer},
		bucket:    f.bucket,
		cash:      f.control,
		resolvers: resolvers.NewChecker(),
	}
}

// balance returns the coins held by the address, nil for a missing wallet.
func (f *orderFixture) balance(t testing.TB, addr crosslock.Address) coin.Coins {
	t.Helper()
	coins, err := f.control.Balance(f.db, addr)
	if errors.ErrEmpty.Is(err) {
		return nil
	}
	assert.Nil(t, err)
	return coins
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	orderID := f.create(t, 1000)

	var order Order
	assert.Nil(t, f.bucket.One(f.db, orderID, &order))
	assert.Equal(t, f.source.Address(), order.Source)
	assert.Equal(t, crosslock.UnixTime(4600), order.Timeout)
	assert.Equal(t, OrderAddress(orderID), order.Address)
	assert.Equal(t, crosslock.UnixTime(0), order.CompletedAt)

	// The amount was locked into the order address.
	assert.Equal(t, true, f.balance(t, f.source.Address()).Contains(coin.NewCoin(900, 0, "IOV")))
	assert.Equal(t, true, f.balance(t, order.Address).Contains(coin.NewCoin(100, 0, "IOV")))
}

func TestCreateOrderSeparateIDs(t *testing.T) {
	// Two orders with identical terms coexist thanks to the sequence
	// value mixed into the ID.
	f := newOrderFixture(t)
	first := f.create(t, 1000)
	second := f.create(t, 1000)
	if string(first) == string(second) {
		t.Fatal("identical terms must produce distinct order IDs")
	}
	assert.Equal(t, true, f.balance(t, f.source.Address()).Contains(coin.NewCoin(800, 0, "IOV")))
}

func TestCreateOrderFailures(t *testing.T) {
	cases := map[string]struct {
		signer  func(*orderFixture) crosslock.Condition
		mod     func(*orderFixture)
		wantErr *errors.Error
	}{
		"missing source signature": {
			signer:  func(f *orderFixture) crosslock.Condition { return f.stranger },
			mod:     func(*orderFixture) {},
			wantErr: errors.ErrUnauthorized,
		},
		"timeout below the floor": {
			signer: func(f *orderFixture) crosslock.Condition { return f.source },
			mod: func(f *orderFixture) {
				// 1600 is only ten minutes past creation time.
				f.msg.Timeout = 1600
			},
			wantErr: errors.ErrInput,
		},
		"insufficient funds": {
			signer: func(f *orderFixture) crosslock.Condition { return f.source },
			mod: func(f *orderFixture) {
				f.msg.Amount = coin.NewCoinp(2000, 0, "IOV")
			},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newOrderFixture(t)
			tc.mod(f)
			h := CreateOrderHandler{
				auth:   &locktest.Auth{Signer: tc.signer(f)},
				bucket: f.bucket,
				cash:   f.control,
			}
			if _, err := h.Deliver(f.ctxAt(1000), f.db, &locktest.Tx{Msg: f.msg}); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestCompleteOrder(t *testing.T) {
	f := newOrderFixture(t)
	orderID := f.create(t, 1000)
	f.complete(t, 2000, orderID)

	var order Order
	assert.Nil(t, f.bucket.One(f.db, orderID, &order))
	assert.Equal(t, f.preimage, order.Preimage)
	assert.Equal(t, crosslock.UnixTime(2000), order.CompletedAt)

	// Completion moves no funds.
	assert.Equal(t, true, f.balance(t, order.Address).Contains(coin.NewCoin(100, 0, "IOV")))
}

func TestCompleteOrderFailures(t *testing.T) {
	cases := map[string]struct {
		signer   func(*orderFixture) crosslock.Condition
		now      int64
		preimage func(*orderFixture) []byte
		wantErr  *errors.Error
	}{
		"not a resolver": {
			signer:   func(f *orderFixture) crosslock.Condition { return f.stranger },
			now:      2000,
			preimage: func(f *orderFixture) []byte { return f.preimage },
			wantErr:  errors.ErrUnauthorized,
		},
		"source itself is not enough": {
			signer:   func(f *orderFixture) crosslock.Condition { return f.source },
			now:      2000,
			preimage: func(f *orderFixture) []byte { return f.preimage },
			wantErr:  errors.ErrUnauthorized,
		},
		"wrong secret": {
			signer:   func(f *orderFixture) crosslock.Condition { return f.resolver },
			now:      2000,
			preimage: func(f *orderFixture) []byte { return []byte("not the secret") },
			wantErr:  errors.ErrUnauthorized,
		},
		"past the timeout": {
			signer:   func(f *orderFixture) crosslock.Condition { return f.resolver },
			now:      4601,
			preimage: func(f *orderFixture) []byte { return f.preimage },
			wantErr:  errors.ErrExpired,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newOrderFixture(t)
			orderID := f.create(t, 1000)

			h := CompleteOrderHandler{
				auth:      &locktest.Auth{Signer: tc.signer(f)},
				bucket:    f.bucket,
				resolvers: resolvers.NewChecker(),
			}
			tx := &locktest.Tx{Msg: &CompleteOrderMsg{
				Metadata: &crosslock.Metadata{Schema: 1},
				OrderID:  orderID,
				Preimage: tc.preimage(f),
			}}
			if _, err := h.Deliver(f.ctxAt(tc.now), f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			// No secret was recorded.
			var order Order
			assert.Nil(t, f.bucket.One(f.db, orderID, &order))
			assert.Equal(t, 0, len(order.Preimage))
		})
	}
}

func TestCompleteOrderIsWriteOnce(t *testing.T) {
	f := newOrderFixture(t)
	orderID := f.create(t, 1000)
	f.complete(t, 2000, orderID)

	h := CompleteOrderHandler{
		auth:      &locktest.Auth{Signer: f.resolver},
		bucket:    f.bucket,
		resolvers: resolvers.NewChecker(),
	}
	tx := &locktest.Tx{Msg: &CompleteOrderMsg{
		Metadata: &crosslock.Metadata{Schema: 1},
		OrderID:  orderID,
		Preimage: f.preimage,
	}}
	if _, err := h.Deliver(f.ctxAt(2001), f.db, tx); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	var order Order
	assert.Nil(t, f.bucket.One(f.db, orderID, &order))
	assert.Equal(t, crosslock.UnixTime(2000), order.CompletedAt)
}

func TestTimeoutBoundary(t *testing.T) {
	// The timeout itself still belongs to the completion range and the
	// refund range opens strictly after it, so the two never overlap.
	t.Run("complete at the exact timeout succeeds", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := f.create(t, 1000)
		f.complete(t, 4600, orderID)

		var order Order
		assert.Nil(t, f.bucket.One(f.db, orderID, &order))
		assert.Equal(t, crosslock.UnixTime(4600), order.CompletedAt)
	})

	t.Run("refund at the exact timeout fails", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := f.create(t, 1000)

		h := RefundOrderHandler{
			auth:   &locktest.Auth{Signer: f.source},
			bucket: f.bucket,
			cash:   f.control,
		}
		tx := &locktest.Tx{Msg: &RefundOrderMsg{
			Metadata: &crosslock.Metadata{Schema: 1},
			OrderID:  orderID,
		}}
		if _, err := h.Deliver(f.ctxAt(4600), f.db, tx); !errors.ErrState.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
	})
}

func TestClaimCumulativeGuard(t *testing.T) {
	f := newOrderFixture(t)
	orderID := f.create(t, 1000)
	f.complete(t, 2000, orderID)

	h := f.claimHandler(f.resolver)
	claim := func(amount int64) error {
		tx := &locktest.Tx{Msg: &ClaimMsg{
			Metadata: &crosslock.Metadata{Schema: 1},
			OrderID:  orderID,
			Amount:   coin.NewCoinp(amount, 0, "IOV"),
		}}
		_, err := h.Deliver(f.ctxAt(2100), f.db, tx)
		return err
	}

	assert.Nil(t, claim(40))
	assert.Nil(t, claim(60))

	// The order is fully claimed, one more token is over the total.
	if err := claim(1); !errors.ErrAmount.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	var order Order
	assert.Nil(t, f.bucket.One(f.db, orderID, &order))
	assert.Equal(t, coin.NewCoinp(100, 0, "IOV"), order.Claimed)

	// Exactly the order amount arrived at the resolver.
	assert.Equal(t, true, f.balance(t, f.resolver.Address()).Contains(coin.NewCoin(100, 0, "IOV")))
	assert.Equal(t, false, f.balance(t, order.Address).IsPositive())
}

func TestClaimFailures(t *testing.T) {
	t.Run("before completion", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := f.create(t, 1000)

		h := f.claimHandler(f.resolver)
		tx := &locktest.Tx{Msg: &ClaimMsg{
			Metadata: &crosslock.Metadata{Schema: 1},
			OrderID:  orderID,
			Amount:   coin.NewCoinp(10, 0, "IOV"),
		}}
		if _, err := h.Deliver(f.ctxAt(2000), f.db, tx); !errors.ErrState.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("not a resolver", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := f.create(t, 1000)
		f.complete(t, 2000, orderID)

		h := f.claimHandler(f.stranger)
		tx := &locktest.Tx{Msg: &ClaimMsg{
			Metadata: &crosslock.Metadata{Schema: 1},
			OrderID:  orderID,
			Amount:   coin.NewCoinp(10, 0, "IOV"),
		}}
		if _, err := h.Deliver(f.ctxAt(2100), f.db, tx); !errors.ErrUnauthorized.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
	})
}

func TestRefundOrder(t *testing.T) {
	f := newOrderFixture(t)
	orderID := f.create(t, 1000)

	h := RefundOrderHandler{
		auth:   &locktest.Auth{Signer: f.source},
		bucket: f.bucket,
		cash:   f.control,
	}
	tx := &locktest.Tx{Msg: &RefundOrderMsg{
		Metadata: &crosslock.Metadata{Schema: 1},
		OrderID:  orderID,
	}}

	// Up to and including the timeout the refund is rejected.
	if _, err := h.Deliver(f.ctxAt(4600), f.db, tx); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	// Once expired everything returns to the depositor.
	_, err := h.Deliver(f.ctxAt(4601), f.db, tx)
	assert.Nil(t, err)

	var order Order
	assert.Nil(t, f.bucket.One(f.db, orderID, &order))
	assert.Equal(t, crosslock.UnixTime(4601), order.RefundedAt)
	assert.Equal(t, true, f.balance(t, f.source.Address()).Contains(coin.NewCoin(1000, 0, "IOV")))
	assert.Equal(t, false, f.balance(t, order.Address).IsPositive())

	// A second refund observes the terminal state.
	if _, err := h.Deliver(f.ctxAt(4602), f.db, tx); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestRefundOrderFailures(t *testing.T) {
	t.Run("only the depositor may refund", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := f.create(t, 1000)

		h := RefundOrderHandler{
			auth:   &locktest.Auth{Signer: f.stranger},
			bucket: f.bucket,
			cash:   f.control,
		}
		tx := &locktest.Tx{Msg: &RefundOrderMsg{
			Metadata: &crosslock.Metadata{Schema: 1},
			OrderID:  orderID,
		}}
		if _, err := h.Deliver(f.ctxAt(4601), f.db, tx); !errors.ErrUnauthorized.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("completed orders cannot be refunded", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := f.create(t, 1000)
		f.complete(t, 2000, orderID)

		h := RefundOrderHandler{
			auth:   &locktest.Auth{Signer: f.source},
			bucket: f.bucket,
			cash:   f.control,
		}
		tx := &locktest.Tx{Msg: &RefundOrderMsg{
			Metadata: &crosslock.Metadata{Schema: 1},
			OrderID:  orderID,
		}}
		if _, err := h.Deliver(f.ctxAt(4601), f.db, tx); !errors.ErrState.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
	})
}
