package escrow

import (
	"encoding/hex"
	"encoding/json"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/x/cash"
)

// hexBytes decodes a JSON hex string into raw bytes.
type hexBytes []byte

func (b *hexBytes) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return err
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
	}
	*b = val
	return nil
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Minter cash.Controller
}

var _ crosslock.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial escrow info from genesis and save it in the
// database. Genesis escrows are funded by minting directly into the derived
// instance address.
func (i *Initializer) FromGenesis(opts crosslock.Options, kv crosslock.KVStore) error {
	migration.MustInitPkg(kv, "escrow")

	var escrows []struct {
		OrderHash     hexBytes           `json:"order_hash"`
		PreimageHash  hexBytes           `json:"preimage_hash"`
		Maker         crosslock.Address  `json:"maker"`
		Taker         crosslock.Address  `json:"taker"`
		Amount        *coin.Coin         `json:"amount"`
		SafetyDeposit *coin.Coin         `json:"safety_deposit"`
		DeployedAt    crosslock.UnixTime `json:"deployed_at"`
		Timelocks     struct {
			Withdrawal         uint32 `json:"withdrawal"`
			PublicWithdrawal   uint32 `json:"public_withdrawal"`
			Cancellation       uint32 `json:"cancellation"`
			PublicCancellation uint32 `json:"public_cancellation"`
		} `json:"timelocks"`
		PayoutPolicy PayoutPolicy `json:"payout_policy"`
	}
	if err := opts.ReadOptions("escrow", &escrows); err != nil {
		return errors.Wrap(err, "read escrows")
	}

	bucket := NewBucket()
	for j, e := range escrows {
		t := Timelocks{
			Withdrawal:         e.Timelocks.Withdrawal,
			PublicWithdrawal:   e.Timelocks.PublicWithdrawal,
			Cancellation:       e.Timelocks.Cancellation,
			PublicCancellation: e.Timelocks.PublicCancellation,
		}
		var amount coin.Coin
		if e.Amount != nil {
			amount = *e.Amount
		}
		esc := Escrow{
			Metadata:      &crosslock.Metadata{Schema: 1},
			OrderHash:     e.OrderHash,
			PreimageHash:  e.PreimageHash,
			Maker:         e.Maker,
			Taker:         e.Taker,
			Amount:        e.Amount,
			SafetyDeposit: e.SafetyDeposit,
			DeployedAt:    e.DeployedAt,
			Timelocks:     t.Pack(),
			PayoutPolicy:  e.PayoutPolicy,
			Address:       SwapAddress(e.OrderHash, e.PreimageHash, e.Maker, e.Taker, amount),
			State:         StateOpen,
		}
		if err := esc.Validate(); err != nil {
			return errors.Wrapf(err, "invalid escrow at position %d", j)
		}
		if err := bucket.Create(kv, &esc); err != nil {
			return errors.Wrapf(err, "cannot store escrow at position %d", j)
		}
		funding, err := fundingCoins(esc.Amount, esc.SafetyDeposit)
		if err != nil {
			return errors.Wrapf(err, "cannot fund escrow at position %d", j)
		}
		for _, c := range funding {
			if err := i.Minter.CoinMint(kv, esc.Address, *c); err != nil {
				return errors.Wrap(err, "cannot issue coins")
			}
		}
	}
	return nil
}
