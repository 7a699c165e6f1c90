package cash

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
)

// Controller is the functionality needed by other modules to move funds
// around. Wrapping the storage layer behind this interface keeps wallet
// manipulation in one place.
type Controller interface {
	// MoveCoins removes funds from the source account and adds them to the
	// destination account. This operation is atomic.
	MoveCoins(store crosslock.KVStore, src crosslock.Address, dest crosslock.Address, amount coin.Coin) error

	// CoinMint adds the given amount of funds to the destination account.
	CoinMint(store crosslock.KVStore, dest crosslock.Address, amount coin.Coin) error

	// CoinBurn removes the given amount of funds from the destination
	// account.
	CoinBurn(store crosslock.KVStore, dest crosslock.Address, amount coin.Coin) error

	// Balance returns the amount of funds stored under the given account.
	Balance(store crosslock.KVStore, src crosslock.Address) (coin.Coins, error)
}

// CashController implements the Controller interface on top of a wallet
// bucket.
type CashController struct {
	bucket WalletBucket
}

var _ Controller = CashController{}

// NewController returns a controller using given bucket as the wallet
// storage.
func NewController(bucket WalletBucket) CashController {
	return CashController{bucket: bucket}
}

// MoveCoins moves the given amount from src to dest. If src doesn't exist, or
// doesn't have sufficient coins, it fails.
func (c CashController) MoveCoins(store crosslock.KVStore, src crosslock.Address, dest crosslock.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %#v", &amount)
	}

	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if !AsCoins(sender).Contains(amount) {
		return errors.Wrap(errors.ErrAmount, "insufficient funds")
	}

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := Subtract(sender, amount); err != nil {
		return err
	}
	if err := Add(recipient, amount); err != nil {
		return err
	}
	if err := c.bucket.Save(store, sender); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c CashController) CoinMint(store crosslock.KVStore, dest crosslock.Address, amount coin.Coin) error {
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := Add(recipient, amount); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

// CoinBurn attempts to remove the given amount of coins from the destination
// address. Fails if the account doesn't have enough coins.
func (c CashController) CoinBurn(store crosslock.KVStore, dest crosslock.Address, amount coin.Coin) error {
	account, err := c.bucket.Get(store, dest)
	if err != nil {
		return err
	}
	if account == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", dest)
	}
	if !AsCoins(account).Contains(amount) {
		return errors.Wrap(errors.ErrAmount, "insufficient funds")
	}
	if err := Subtract(account, amount); err != nil {
		return err
	}
	return c.bucket.Save(store, account)
}

// Balance returns the coins stored under the given account.
func (c CashController) Balance(store crosslock.KVStore, src crosslock.Address) (coin.Coins, error) {
	account, err := c.bucket.Get(store, src)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get account")
	}
	if account == nil {
		return nil, errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	return AsCoins(account), nil
}
