package cash

import (
	"testing"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/locktest"
	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/store"
)

func TestCoinMintAndBalance(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "cash")
	control := NewController(NewBucket())

	addr := locktest.NewCondition().Address()

	if err := control.CoinMint(db, addr, coin.NewCoin(100, 0, "IOV")); err != nil {
		t.Fatalf("cannot mint: %s", err)
	}

	coins, err := control.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(coins))
	assert.Equal(t, true, coins.Contains(coin.NewCoin(100, 0, "IOV")))

	// Minting a negative amount reduces the balance.
	if err := control.CoinMint(db, addr, coin.NewCoin(-30, 0, "IOV")); err != nil {
		t.Fatalf("cannot mint negative: %s", err)
	}
	coins, err = control.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, true, coins.Contains(coin.NewCoin(70, 0, "IOV")))
}

func TestCoinBurn(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "cash")
	control := NewController(NewBucket())

	addr := locktest.NewCondition().Address()

	assert.Nil(t, control.CoinMint(db, addr, coin.NewCoin(100, 0, "IOV")))
	assert.Nil(t, control.CoinBurn(db, addr, coin.NewCoin(40, 0, "IOV")))

	coins, err := control.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, true, coins.Contains(coin.NewCoin(60, 0, "IOV")))

	// Burning more than the account holds must fail.
	if err := control.CoinBurn(db, addr, coin.NewCoin(100, 0, "IOV")); !errors.ErrAmount.Is(err) {
		t.Fatalf("unexpected burn error: %+v", err)
	}
}

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "cash")
	control := NewController(NewBucket())

	src := locktest.NewCondition().Address()
	dest := locktest.NewCondition().Address()

	assert.Nil(t, control.CoinMint(db, src, coin.NewCoin(100, 0, "IOV")))
	assert.Nil(t, control.MoveCoins(db, src, dest, coin.NewCoin(30, 0, "IOV")))

	senderCoins, err := control.Balance(db, src)
	assert.Nil(t, err)
	assert.Equal(t, true, senderCoins.Contains(coin.NewCoin(70, 0, "IOV")))

	destCoins, err := control.Balance(db, dest)
	assert.Nil(t, err)
	assert.Equal(t, true, destCoins.Contains(coin.NewCoin(30, 0, "IOV")))
}

func TestMoveCoinsFailures(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "cash")
	control := NewController(NewBucket())

	src := locktest.NewCondition().Address()
	dest := locktest.NewCondition().Address()

	cases := map[string]struct {
		prepare func(t *testing.T, db crosslock.KVStore)
		amount  coin.Coin
		wantErr *errors.Error
	}{
		"empty sender account": {
			amount:  coin.NewCoin(10, 0, "IOV"),
			wantErr: errors.ErrEmpty,
		},
		"non-positive amount": {
			prepare: func(t *testing.T, db crosslock.KVStore) {
				assert.Nil(t, control.CoinMint(db, src, coin.NewCoin(100, 0, "IOV")))
			},
			amount:  coin.NewCoin(0, 0, "IOV"),
			wantErr: errors.ErrAmount,
		},
		"insufficient funds": {
			prepare: func(t *testing.T, db crosslock.KVStore) {
				assert.Nil(t, control.CoinMint(db, src, coin.NewCoin(10, 0, "IOV")))
			},
			amount:  coin.NewCoin(900, 0, "IOV"),
			wantErr: errors.ErrAmount,
		},
		"wrong currency": {
			prepare: func(t *testing.T, db crosslock.KVStore) {
				assert.Nil(t, control.CoinMint(db, src, coin.NewCoin(100, 0, "IOV")))
			},
			amount:  coin.NewCoin(10, 0, "ETH"),
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "cash")
			if tc.prepare != nil {
				tc.prepare(t, db)
			}
			if err := control.MoveCoins(db, src, dest, tc.amount); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected move error: %+v", err)
			}
		})
	}
}
