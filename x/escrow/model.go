package escrow

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/orm"
)

func init() {
	migration.MustRegister(1, &Escrow{}, migration.NoModification)
}

const (
	// hashSize is the length of the order hash and the preimage hash.
	hashSize = 32

	bucketName = "esc"
)

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow record is complete and consistent.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderHash", validateHash(e.OrderHash))
	errs = errors.AppendField(errs, "PreimageHash", validateHash(e.PreimageHash))
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	errs = errors.AppendField(errs, "Taker", e.Taker.Validate())
	if e.Amount == nil || !e.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", e.Amount.Validate())
	}
	if e.SafetyDeposit != nil {
		if !e.SafetyDeposit.IsNonNegative() {
			errs = errors.AppendField(errs, "SafetyDeposit", errors.Wrap(errors.ErrAmount, "must not be negative"))
		} else {
			errs = errors.AppendField(errs, "SafetyDeposit", e.SafetyDeposit.Validate())
		}
	}
	if e.DeployedAt == 0 {
		errs = errors.AppendField(errs, "DeployedAt", errors.Wrap(errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "DeployedAt", e.DeployedAt.Validate())
	}
	if t, err := UnpackTimelocks(e.Timelocks); err != nil {
		errs = errors.AppendField(errs, "Timelocks", err)
	} else {
		errs = errors.AppendField(errs, "Timelocks", t.Validate())
	}
	errs = errors.AppendField(errs, "Address", e.Address.Validate())
	if e.State < StateOpen || e.State > StateCancelled {
		errs = errors.AppendField(errs, "State", errors.Wrap(errors.ErrState, "unknown state"))
	}
	// The revealed secret and the withdrawn state imply each other.
	if (len(e.Preimage) != 0) != (e.State == StateWithdrawn) {
		errs = errors.Append(errs, errors.Wrap(errors.ErrState, "preimage must be set exactly when withdrawn"))
	}
	return errs
}

func validateHash(h []byte) error {
	if len(h) != hashSize {
		return errors.Wrapf(errors.ErrInput, "hash must be %d bytes", hashSize)
	}
	return nil
}

// Copy produces a deep copy of the escrow.
func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Metadata:      e.Metadata.Copy(),
		OrderHash:     append([]byte(nil), e.OrderHash...),
		PreimageHash:  append([]byte(nil), e.PreimageHash...),
		Maker:         e.Maker.Clone(),
		Taker:         e.Taker.Clone(),
		Amount:        e.Amount.Clone(),
		SafetyDeposit: e.SafetyDeposit.Clone(),
		DeployedAt:    e.DeployedAt,
		Timelocks:     append([]byte(nil), e.Timelocks...),
		PayoutPolicy:  e.PayoutPolicy,
		Address:       e.Address.Clone(),
		State:         e.State,
		Preimage:      append([]byte(nil), e.Preimage...),
	}
}

// SwapCondition derives the escrow instance condition from the immutable
// swap parameters only. Both chains compute the same value for the same
// parameters, before either instance exists. Volatile context such as block
// time or height must never enter this derivation.
func SwapCondition(orderHash, preimageHash []byte, maker, taker crosslock.Address, amount coin.Coin) crosslock.Condition {
	h := sha256.New()
	h.Write(orderHash)
	h.Write(preimageHash)
	h.Write(maker)
	h.Write(taker)
	var enc [16]byte
	binary.BigEndian.PutUint64(enc[:8], uint64(amount.Whole))
	binary.BigEndian.PutUint64(enc[8:], uint64(amount.Fractional))
	h.Write(enc[:])
	h.Write([]byte(amount.Ticker))
	return crosslock.NewCondition("escrow", "swap", h.Sum(nil))
}

// AddressSource derives the instance address for a new escrow. The default
// is SwapAddress. A custom source can be supplied to the handlers when the
// embedding chain uses a different derivation primitive.
type AddressSource func(orderHash, preimageHash []byte, maker, taker crosslock.Address, amount coin.Coin) crosslock.Address

// SwapAddress is the default AddressSource, built on SwapCondition.
func SwapAddress(orderHash, preimageHash []byte, maker, taker crosslock.Address, amount coin.Coin) crosslock.Address {
	return SwapCondition(orderHash, preimageHash, maker, taker, amount).Address()
}

// Phase is the observable position of an escrow in its lifecycle, a pure
// projection of the state flag and the clock against the window schedule.
type Phase string

const (
	PhaseFinalityLock        Phase = "finality_lock"
	PhasePrivateWithdrawal   Phase = "private_withdrawal"
	PhasePublicWithdrawal    Phase = "public_withdrawal"
	PhasePrivateCancellation Phase = "private_cancellation"
	PhasePublicCancellation  Phase = "public_cancellation"
	PhaseWithdrawn           Phase = "withdrawn"
	PhaseCancelled           Phase = "cancelled"
)

// Phase reports the lifecycle phase at the given time. It never mutates the
// escrow.
func (e *Escrow) Phase(now crosslock.UnixTime) (Phase, error) {
	switch e.State {
	case StateWithdrawn:
		return PhaseWithdrawn, nil
	case StateCancelled:
		return PhaseCancelled, nil
	}
	t, err := UnpackTimelocks(e.Timelocks)
	if err != nil {
		return "", err
	}
	switch {
	case now < e.boundary(t.Withdrawal):
		return PhaseFinalityLock, nil
	case now < e.boundary(t.PublicWithdrawal):
		return PhasePrivateWithdrawal, nil
	case now < e.boundary(t.Cancellation):
		return PhasePublicWithdrawal, nil
	case now < e.boundary(t.PublicCancellation):
		return PhasePrivateCancellation, nil
	default:
		return PhasePublicCancellation, nil
	}
}

// boundary translates a window offset into absolute time.
func (e *Escrow) boundary(offset uint32) crosslock.UnixTime {
	return e.DeployedAt + crosslock.UnixTime(offset)
}

// Bucket is the escrow registry. Records are keyed by order hash, so the
// lookup of a swap instance is a primary key read.
type Bucket struct {
	*migration.ModelBucket
}

func NewBucket() Bucket {
	b := orm.NewModelBucket(orm.NewBucket(bucketName, orm.NewSimpleObj(nil, &Escrow{})))
	return Bucket{
		ModelBucket: migration.NewModelBucket("escrow", b),
	}
}

// Create stores a new escrow record. Storing under an order hash that is
// already registered fails and leaves the registry unchanged.
func (b Bucket) Create(db crosslock.KVStore, e *Escrow) error {
	switch err := b.Has(db, e.OrderHash); {
	case err == nil:
		return errors.Wrapf(ErrAlreadyInitialized, "order %X", e.OrderHash)
	case errors.ErrNotFound.Is(err):
		return b.Put(db, e.OrderHash, e)
	default:
		return err
	}
}
