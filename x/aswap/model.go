package aswap

import (
	"crypto/sha256"
	"time"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/orm"
)

func init() {
	migration.MustRegister(1, &Order{}, migration.NoModification)
}

const (
	// preimageHashSize is the sha256 commitment length.
	preimageHashSize = 32

	maxMemoSize = 128

	// MinTimeout is the floor on how far in the future an order timeout
	// must lie. Anything closer would make the order trivially
	// refundable before the counter-leg can settle.
	MinTimeout = 30 * time.Minute

	bucketName = "swap"
)

var _ orm.Model = (*Order)(nil)

// Validate ensures the order record is complete and consistent.
func (o *Order) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", o.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", o.Source.Validate())
	if o.DestinationChainID == "" {
		errs = errors.AppendField(errs, "DestinationChainID", errors.Wrap(errors.ErrEmpty, "required"))
	}
	if o.DestinationToken == "" {
		errs = errors.AppendField(errs, "DestinationToken", errors.Wrap(errors.ErrEmpty, "required"))
	}
	if len(o.PreimageHash) != preimageHashSize {
		errs = errors.AppendField(errs, "PreimageHash", errors.Wrapf(errors.ErrInput, "hash must be %d bytes", preimageHashSize))
	}
	if o.Amount == nil || !o.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", o.Amount.Validate())
	}
	if o.Timeout == 0 {
		errs = errors.AppendField(errs, "Timeout", errors.Wrap(errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "Timeout", o.Timeout.Validate())
	}
	if len(o.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrapf(errors.ErrInput, "longer than %d characters", maxMemoSize))
	}
	errs = errors.AppendField(errs, "Address", o.Address.Validate())
	// The revealed secret and the completion timestamp imply each other.
	if (len(o.Preimage) != 0) != (o.CompletedAt != 0) {
		errs = errors.Append(errs, errors.Wrap(errors.ErrState, "preimage must be set exactly when completed"))
	}
	if o.CompletedAt != 0 && o.RefundedAt != 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrState, "cannot be both completed and refunded"))
	}
	if o.Claimed != nil {
		if !o.Claimed.IsNonNegative() {
			errs = errors.AppendField(errs, "Claimed", errors.Wrap(errors.ErrAmount, "must not be negative"))
		} else if o.Amount != nil && o.Claimed.Ticker != o.Amount.Ticker {
			errs = errors.AppendField(errs, "Claimed", errors.Wrap(errors.ErrCurrency, "ticker mismatch"))
		} else if o.Amount != nil {
			if left, err := o.Amount.Subtract(*o.Claimed); err != nil || !left.IsNonNegative() {
				errs = errors.AppendField(errs, "Claimed", errors.Wrap(errors.ErrAmount, "exceeds order amount"))
			}
		}
	}
	return errs
}

// Copy produces a deep copy of the order.
func (o *Order) Copy() orm.CloneableData {
	return &Order{
		Metadata:           o.Metadata.Copy(),
		Source:             o.Source.Clone(),
		DestinationChainID: o.DestinationChainID,
		DestinationToken:   o.DestinationToken,
		PreimageHash:       append([]byte(nil), o.PreimageHash...),
		Amount:             o.Amount.Clone(),
		Timeout:            o.Timeout,
		Memo:               o.Memo,
		Address:            o.Address.Clone(),
		Preimage:           append([]byte(nil), o.Preimage...),
		CompletedAt:        o.CompletedAt,
		RefundedAt:         o.RefundedAt,
		Claimed:            o.Claimed.Clone(),
	}
}

// orderSeq issues the per-order disambiguator mixed into the order ID.
var orderSeq = orm.NewSequence(bucketName, "id")

// OrderID derives the registry key from the depositor, the hash commitment
// and a sequence value, so two orders with identical terms never collide.
func OrderID(source crosslock.Address, preimageHash, seq []byte) []byte {
	h := sha256.New()
	h.Write(source)
	h.Write(preimageHash)
	h.Write(seq)
	return h.Sum(nil)
}

// OrderCondition is the condition guarding the funds locked for an order.
func OrderCondition(orderID []byte) crosslock.Condition {
	return crosslock.NewCondition("aswap", "order", orderID)
}

// OrderAddress is the address holding the funds locked for an order.
func OrderAddress(orderID []byte) crosslock.Address {
	return OrderCondition(orderID).Address()
}

// Bucket is the order registry, keyed by order ID.
type Bucket struct {
	*migration.ModelBucket
}

func NewBucket() Bucket {
	b := orm.NewModelBucket(orm.NewBucket(bucketName, orm.NewSimpleObj(nil, &Order{})))
	return Bucket{
		ModelBucket: migration.NewModelBucket("aswap", b),
	}
}

// Create stores a new order record. Storing under an order ID that is
// already registered fails and leaves the registry unchanged.
func (b Bucket) Create(db crosslock.KVStore, orderID []byte, o *Order) error {
	switch err := b.Has(db, orderID); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "order %X", orderID)
	case errors.ErrNotFound.Is(err):
		return b.Put(db, orderID, o)
	default:
		return err
	}
}
