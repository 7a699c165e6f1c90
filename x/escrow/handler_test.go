package escrow

import (
	"bytes"
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
	"github.com/crosslock-one/crosslock/x/utils"
)

// fixture wires a fresh store with a funded maker, an allow-listed resolver
// and a create message with the window schedule 10/20/30/40.
type fixture struct {
	db      crosslock.CacheableKVStore
	control cash.Controller
	bucket  Bucket

	maker    crosslock.Condition
	taker    crosslock.Condition
	resolver crosslock.Condition
	stranger crosslock.Condition

	preimage []byte
	msg      *CreateEscrowMsg
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	db := store.MemStore()
	migration.MustInitPkg(db, "cash", "escrow", "resolvers")

	f := &fixture{
		db:       db,
		control:  cash.NewController(cash.NewBucket()),
		bucket:   NewBucket(),
		maker:    locktest.NewCondition(),
		taker:    locktest.NewCondition(),
		resolver: locktest.NewCondition(),
		stranger: locktest.NewCondition(),
		preimage: []byte("my ultimate secret"),
	}

	assert.Nil(t, f.control.CoinMint(db, f.maker.Address(), coin.NewCoin(1000, 0, "IOV")))

	ac := resolvers.AccessControl{
		Metadata:  &crosslock.Metadata{Schema: 1},
		Owner:     locktest.NewCondition().Address(),
		Resolvers: []crosslock.Address{f.resolver.Address()},
	}
	assert.Nil(t, gconf.Save(db, "resolvers", &ac))

	f.msg = &CreateEscrowMsg{
		Metadata:      &crosslock.Metadata{Schema: 1},
		OrderHash:     bytes.Repeat([]byte{0xAB}, 32),
		PreimageHash:  hashlock.Hash(f.preimage),
		Maker:         f.maker.Address(),
		Taker:         f.taker.Address(),
		Amount:        coin.NewCoinp(100, 0, "IOV"),
		SafetyDeposit: coin.NewCoinp(5, 0, "IOV"),
		Timelocks: Timelocks{
			Withdrawal:         10,
			PublicWithdrawal:   20,
			Cancellation:       30,
			PublicCancellation: 40,
		},
		PayoutPolicy: PayoutToCounterparty,
	}
	return f
}

func (f *fixture) ctxAt(now int64) crosslock.Context {
	return crosslock.WithBlockTime(context.Background(), time.Unix(now, 0))
}

func (f *fixture) createHandler(signers ...crosslock.Condition) CreateEscrowHandler {
	return CreateEscrowHandler{
		auth:      &locktest.Auth{Signers: signers},
		bucket:    f.bucket,
		cash:      f.control,
		resolvers: resolvers.NewChecker(),
		source:    SwapAddress,
	}
}

func (f *fixture) withdrawHandler(signers ...crosslock.Condition) WithdrawHandler {
	return WithdrawHandler{
		auth:   &locktest.Auth{Signers: signers},
		bucket: f.bucket,
		cash:   f.control,
	}
}

func (f *fixture) cancelHandler(signers ...crosslock.Condition) CancelHandler {
	return CancelHandler{
		auth:   &locktest.Auth{Signers: signers},
		bucket: f.bucket,
		cash:   f.control,
	}
}

// create runs the create handler at the given time and returns the stored
// escrow.
func (f *fixture) create(t testing.TB, now int64) *Escrow {
	t.Helper()
	h := f.createHandler(f.maker, f.resolver)
	tx := &locktest.Tx{Msg: f.msg}
	if _, err := h.Deliver(f.ctxAt(now), f.db, tx); err != nil {
		t.Fatalf("cannot create escrow: %+v", err)
	}
	var esc Escrow
	assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &esc))
	return &esc
}

// balance returns the coins held by the address, nil for a missing wallet.
func (f *fixture) balance(t testing.TB, addr crosslock.Address) coin.Coins {
	t.Helper()
	coins, err := f.control.Balance(f.db, addr)
	if errors.ErrEmpty.Is(err) {
		return nil
	}
	assert.Nil(t, err)
	return coins
}

func TestCreateEscrow(t *testing.T) {
	f := newFixture(t)

	h := f.createHandler(f.maker, f.resolver)
	tx := &locktest.Tx{Msg: f.msg}

	res, err := h.Deliver(f.ctxAt(1000), f.db, tx)
	assert.Nil(t, err)

	// The instance address is derived from the immutable parameters only.
	want := SwapAddress(f.msg.OrderHash, f.msg.PreimageHash, f.msg.Maker, f.msg.Taker, *f.msg.Amount)
	assert.Equal(t, crosslock.Address(res.Data), want)

	var esc Escrow
	assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &esc))
	assert.Equal(t, StateOpen, esc.State)
	assert.Equal(t, crosslock.UnixTime(1000), esc.DeployedAt)
	assert.Equal(t, f.msg.Timelocks.Pack(), esc.Timelocks)

	// Amount plus deposit moved from the maker to the instance.
	assert.Equal(t, true, f.balance(t, f.maker.Address()).Contains(coin.NewCoin(895, 0, "IOV")))
	assert.Equal(t, true, f.balance(t, want).Contains(coin.NewCoin(105, 0, "IOV")))
}

func TestCreateEscrowFailures(t *testing.T) {
	cases := map[string]struct {
		signers []int // indexes: 0 maker, 1 resolver, 2 stranger
		mod     func(*fixture)
		wantErr *errors.Error
	}{
		"missing maker signature": {
			signers: []int{1},
			mod:     func(*fixture) {},
			wantErr: errors.ErrUnauthorized,
		},
		"missing resolver signature": {
			signers: []int{0, 2},
			mod:     func(*fixture) {},
			wantErr: errors.ErrUnauthorized,
		},
		"insufficient funding": {
			signers: []int{0, 1},
			mod: func(f *fixture) {
				f.msg.Amount = coin.NewCoinp(2000, 0, "IOV")
			},
			wantErr: ErrInsufficientFunding,
		},
		"unknown ticker": {
			signers: []int{0, 1},
			mod: func(f *fixture) {
				f.msg.Amount = coin.NewCoinp(1, 0, "BTC")
			},
			wantErr: ErrInsufficientFunding,
		},
		"funding overflow": {
			signers: []int{0, 1},
			mod: func(f *fixture) {
				// Amount plus the deposit exceeds the coin range. The sum
				// must fail loudly instead of dropping the deposit.
				f.msg.Amount = coin.NewCoinp(coin.MaxInt, 0, "IOV")
			},
			wantErr: errors.ErrOverflow,
		},
		"invalid windows": {
			signers: []int{0, 1},
			mod: func(f *fixture) {
				f.msg.Timelocks.Cancellation = 15
			},
			wantErr: ErrInvalidTimelocks,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			tc.mod(f)
			all := []crosslock.Condition{f.maker, f.resolver, f.stranger}
			var signers []crosslock.Condition
			for _, i := range tc.signers {
				signers = append(signers, all[i])
			}
			h := f.createHandler(signers...)
			tx := &locktest.Tx{Msg: f.msg}

			if _, err := h.Check(f.ctxAt(1000), f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := h.Deliver(f.ctxAt(1000), f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			// Nothing was written and no funds moved.
			var esc Escrow
			if err := f.bucket.One(f.db, f.msg.OrderHash, &esc); !errors.ErrNotFound.Is(err) {
				t.Fatalf("escrow must not exist: %+v", err)
			}
			assert.Equal(t, true, f.balance(t, f.maker.Address()).Contains(coin.NewCoin(1000, 0, "IOV")))
		})
	}
}

func TestCreateEscrowDuplicate(t *testing.T) {
	f := newFixture(t)
	f.create(t, 1000)

	h := f.createHandler(f.maker, f.resolver)
	tx := &locktest.Tx{Msg: f.msg}
	if _, err := h.Deliver(f.ctxAt(1001), f.db, tx); !ErrDuplicateSwap.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	// The failed call must not modify the registry or move funds again.
	var esc Escrow
	assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &esc))
	assert.Equal(t, crosslock.UnixTime(1000), esc.DeployedAt)
	assert.Equal(t, true, f.balance(t, f.maker.Address()).Contains(coin.NewCoin(895, 0, "IOV")))
}

func TestWithdrawWindows(t *testing.T) {
	// Escrow deployed at 1000 with windows 10/20/30/40.
	cases := map[string]struct {
		now     int64
		caller  func(*fixture) crosslock.Condition
		secret  func(*fixture) []byte
		wantErr *errors.Error
	}{
		"public window, any caller succeeds": {
			// scenario A
			now:    1025,
			caller: func(f *fixture) crosslock.Condition { return f.stranger },
			secret: func(f *fixture) []byte { return f.preimage },
		},
		"private window, stranger rejected": {
			// scenario B
			now:     1015,
			caller:  func(f *fixture) crosslock.Condition { return f.stranger },
			secret:  func(f *fixture) []byte { return f.preimage },
			wantErr: ErrPrivateWindow,
		},
		"private window, maker rejected": {
			now:     1015,
			caller:  func(f *fixture) crosslock.Condition { return f.maker },
			secret:  func(f *fixture) []byte { return f.preimage },
			wantErr: ErrPrivateWindow,
		},
		"private window, taker succeeds": {
			now:    1015,
			caller: func(f *fixture) crosslock.Condition { return f.taker },
			secret: func(f *fixture) []byte { return f.preimage },
		},
		"finality lock": {
			// scenario C, valid secret and entitled caller do not help
			now:     1005,
			caller:  func(f *fixture) crosslock.Condition { return f.taker },
			secret:  func(f *fixture) []byte { return f.preimage },
			wantErr: ErrTooEarly,
		},
		"after cancellation boundary": {
			now:     1035,
			caller:  func(f *fixture) crosslock.Condition { return f.taker },
			secret:  func(f *fixture) []byte { return f.preimage },
			wantErr: ErrWindowExpired,
		},
		"wrong secret": {
			now:     1025,
			caller:  func(f *fixture) crosslock.Condition { return f.taker },
			secret:  func(f *fixture) []byte { return []byte("not the secret") },
			wantErr: ErrInvalidSecret,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			esc := f.create(t, 1000)

			h := f.withdrawHandler(tc.caller(f))
			tx := &locktest.Tx{Msg: &WithdrawMsg{
				Metadata:  &crosslock.Metadata{Schema: 1},
				OrderHash: f.msg.OrderHash,
				Preimage:  tc.secret(f),
			}}

			_, err := h.Deliver(f.ctxAt(tc.now), f.db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			var stored Escrow
			assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &stored))
			if tc.wantErr == nil {
				assert.Equal(t, StateWithdrawn, stored.State)
				assert.Equal(t, f.preimage, stored.Preimage)
				// Nothing is left on the instance address.
				assert.Equal(t, false, f.balance(t, esc.Address).IsPositive())
			} else {
				assert.Equal(t, StateOpen, stored.State)
				assert.Equal(t, 0, len(stored.Preimage))
				assert.Equal(t, true, f.balance(t, esc.Address).Contains(coin.NewCoin(105, 0, "IOV")))
			}
		})
	}
}

func TestWithdrawPayout(t *testing.T) {
	cases := map[string]struct {
		policy     PayoutPolicy
		caller     func(*fixture) crosslock.Condition
		now        int64
		_recipient func(*fixture) crosslock.Address
	}{
		"counterparty policy, taker withdraws, maker receives": {
			policy:     PayoutToCounterparty,
			caller:     func(f *fixture) crosslock.Condition { return f.taker },
			now:        1015,
			_recipient: func(f *fixture) crosslock.Address { return f.maker.Address() },
		},
		"counterparty policy, stranger executes, maker receives": {
			policy:     PayoutToCounterparty,
			caller:     func(f *fixture) crosslock.Condition { return f.stranger },
			now:        1025,
			_recipient: func(f *fixture) crosslock.Address { return f.maker.Address() },
		},
		"caller policy, taker withdraws and receives": {
			policy:     PayoutToCaller,
			caller:     func(f *fixture) crosslock.Condition { return f.taker },
			now:        1015,
			_recipient: func(f *fixture) crosslock.Address { return f.taker.Address() },
		},
		"caller policy, stranger executes and receives": {
			policy:     PayoutToCaller,
			caller:     func(f *fixture) crosslock.Condition { return f.stranger },
			now:        1025,
			_recipient: func(f *fixture) crosslock.Address { return f.stranger.Address() },
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.msg.PayoutPolicy = tc.policy
			f.create(t, 1000)

			caller := tc.caller(f)
			recipient := tc._recipient(f)

			h := f.withdrawHandler(caller)
			tx := &locktest.Tx{Msg: &WithdrawMsg{
				Metadata:  &crosslock.Metadata{Schema: 1},
				OrderHash: f.msg.OrderHash,
				Preimage:  f.preimage,
			}}
			_, err := h.Deliver(f.ctxAt(tc.now), f.db, tx)
			assert.Nil(t, err)

			// The amount goes to the policy recipient, the deposit to
			// the executing caller.
			assert.Equal(t, true, f.balance(t, recipient).Contains(coin.NewCoin(100, 0, "IOV")))
			assert.Equal(t, true, f.balance(t, caller.Address()).Contains(coin.NewCoin(5, 0, "IOV")))
		})
	}
}

func TestWithdrawIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.create(t, 1000)

	h := f.withdrawHandler(f.taker)
	tx := &locktest.Tx{Msg: &WithdrawMsg{
		Metadata:  &crosslock.Metadata{Schema: 1},
		OrderHash: f.msg.OrderHash,
		Preimage:  f.preimage,
	}}
	_, err := h.Deliver(f.ctxAt(1015), f.db, tx)
	assert.Nil(t, err)

	// A second withdrawal fails terminal, even with the valid secret, and
	// the recorded secret cannot change.
	if _, err := h.Deliver(f.ctxAt(1016), f.db, tx); !ErrAlreadyTerminal.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	var stored Escrow
	assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &stored))
	assert.Equal(t, f.preimage, stored.Preimage)

	// Cancellation of a withdrawn escrow fails as well.
	c := f.cancelHandler(f.maker)
	ctx := &locktest.Tx{Msg: &CancelMsg{
		Metadata:  &crosslock.Metadata{Schema: 1},
		OrderHash: f.msg.OrderHash,
	}}
	if _, err := c.Deliver(f.ctxAt(1045), f.db, ctx); !ErrAlreadyTerminal.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestCancelWindows(t *testing.T) {
	cases := map[string]struct {
		now     int64
		caller  func(*fixture) crosslock.Condition
		wantErr *errors.Error
	}{
		"before cancellation boundary": {
			now:     1025,
			caller:  func(f *fixture) crosslock.Condition { return f.maker },
			wantErr: ErrTooEarly,
		},
		"private cancellation, stranger rejected": {
			// scenario D
			now:     1035,
			caller:  func(f *fixture) crosslock.Condition { return f.stranger },
			wantErr: ErrPrivateWindow,
		},
		"private cancellation, taker rejected": {
			now:     1035,
			caller:  func(f *fixture) crosslock.Condition { return f.taker },
			wantErr: ErrPrivateWindow,
		},
		"private cancellation, maker succeeds": {
			now:    1035,
			caller: func(f *fixture) crosslock.Condition { return f.maker },
		},
		"public cancellation, any caller succeeds": {
			// scenario D, second half
			now:    1045,
			caller: func(f *fixture) crosslock.Condition { return f.stranger },
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			esc := f.create(t, 1000)

			h := f.cancelHandler(tc.caller(f))
			tx := &locktest.Tx{Msg: &CancelMsg{
				Metadata:  &crosslock.Metadata{Schema: 1},
				OrderHash: f.msg.OrderHash,
			}}

			_, err := h.Deliver(f.ctxAt(tc.now), f.db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			var stored Escrow
			assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &stored))
			if tc.wantErr == nil {
				assert.Equal(t, StateCancelled, stored.State)
				// Everything returns to the maker.
				assert.Equal(t, true, f.balance(t, f.maker.Address()).Contains(coin.NewCoin(1000, 0, "IOV")))
				assert.Equal(t, false, f.balance(t, esc.Address).IsPositive())
			} else {
				assert.Equal(t, StateOpen, stored.State)
			}
		})
	}
}

func TestWindowDisjointness(t *testing.T) {
	// At no point in time can both a withdrawal and a cancellation
	// succeed. The caller signs as every party and holds the secret, so
	// only the window gates decide.
	for _, now := range []int64{999, 1000, 1005, 1009, 1010, 1015, 1019, 1020, 1025, 1029, 1030, 1035, 1039, 1040, 1045} {
		wf := newFixture(t)
		wf.create(t, 1000)
		wh := wf.withdrawHandler(wf.maker, wf.taker, wf.resolver)
		_, werr := wh.Deliver(wf.ctxAt(now), wf.db, &locktest.Tx{Msg: &WithdrawMsg{
			Metadata:  &crosslock.Metadata{Schema: 1},
			OrderHash: wf.msg.OrderHash,
			Preimage:  wf.preimage,
		}})

		cf := newFixture(t)
		cf.create(t, 1000)
		ch := cf.cancelHandler(cf.maker, cf.taker, cf.resolver)
		_, cerr := ch.Deliver(cf.ctxAt(now), cf.db, &locktest.Tx{Msg: &CancelMsg{
			Metadata:  &crosslock.Metadata{Schema: 1},
			OrderHash: cf.msg.OrderHash,
		}})

		if werr == nil && cerr == nil {
			t.Errorf("at %d both withdraw and cancel succeed", now)
		}
	}
}

func TestWithdrawRollsBackOnPayoutFailure(t *testing.T) {
	f := newFixture(t)

	// Store an open escrow whose instance address holds no funds, so the
	// payout must fail after the state was already mutated.
	esc := &Escrow{
		Metadata:     &crosslock.Metadata{Schema: 1},
		OrderHash:    f.msg.OrderHash,
		PreimageHash: f.msg.PreimageHash,
		Maker:        f.msg.Maker,
		Taker:        f.msg.Taker,
		Amount:       f.msg.Amount,
		DeployedAt:   1000,
		Timelocks:    f.msg.Timelocks.Pack(),
		Address:      SwapAddress(f.msg.OrderHash, f.msg.PreimageHash, f.msg.Maker, f.msg.Taker, *f.msg.Amount),
		State:        StateOpen,
	}
	assert.Nil(t, f.bucket.Create(f.db, esc))

	h := locktest.Decorate(f.withdrawHandler(f.taker), utils.NewSavepoint().OnDeliver())
	tx := &locktest.Tx{Msg: &WithdrawMsg{
		Metadata:  &crosslock.Metadata{Schema: 1},
		OrderHash: f.msg.OrderHash,
		Preimage:  f.preimage,
	}}
	if _, err := h.Deliver(f.ctxAt(1015), f.db, tx); err == nil {
		t.Fatal("expected an error")
	}

	// The savepoint rolled back the state mutation, the escrow is still
	// open with no recorded secret.
	var stored Escrow
	assert.Nil(t, f.bucket.One(f.db, f.msg.OrderHash, &stored))
	assert.Equal(t, StateOpen, stored.State)
	assert.Equal(t, 0, len(stored.Preimage))
}
