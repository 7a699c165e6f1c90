package escrow

import (
	"encoding/json"
	"math"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// State is the tri-state lifecycle flag of an escrow. The transition out of
// StateOpen is one way.
type State int32

const (
	StateInvalid   State = 0
	StateOpen      State = 1
	StateWithdrawn State = 2
	StateCancelled State = 3
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateWithdrawn:
		return "withdrawn"
	case StateCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// PayoutPolicy decides who receives the escrowed amount on withdrawal. The
// safety deposit always goes to the executing caller.
type PayoutPolicy int32

const (
	// PayoutToCounterparty sends the amount to the counterparty of the
	// entitled actor: a taker withdrawing pays the maker and vice versa.
	PayoutToCounterparty PayoutPolicy = 0
	// PayoutToCaller sends the amount to whoever executed the withdrawal.
	PayoutToCaller PayoutPolicy = 1
)

func (p PayoutPolicy) String() string {
	switch p {
	case PayoutToCounterparty:
		return "counterparty"
	case PayoutToCaller:
		return "caller"
	default:
		return "invalid"
	}
}

func (p PayoutPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PayoutPolicy) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return err
	}
	switch name {
	case "counterparty", "":
		*p = PayoutToCounterparty
	case "caller":
		*p = PayoutToCaller
	default:
		return errors.Wrapf(errors.ErrInput, "unknown payout policy %q", name)
	}
	return nil
}

// Escrow is a single swap instance. All fields except State and Preimage are
// fixed at creation.
type Escrow struct {
	Metadata     *crosslock.Metadata
	OrderHash    []byte
	PreimageHash []byte
	Maker        crosslock.Address
	Taker        crosslock.Address
	// Amount is the escrowed asset quantity.
	Amount *coin.Coin
	// SafetyDeposit compensates whoever executes the terminal action. May
	// be nil.
	SafetyDeposit *coin.Coin
	// DeployedAt anchors the packed window offsets in absolute time.
	DeployedAt crosslock.UnixTime
	// Timelocks is the 160 bit packed window schedule.
	Timelocks    []byte
	PayoutPolicy PayoutPolicy
	// Address is the derived instance address holding the funds.
	Address crosslock.Address
	State   State
	// Preimage is set exactly once, on withdrawal.
	Preimage []byte
}

func (e *Escrow) GetMetadata() *crosslock.Metadata {
	if e == nil {
		return nil
	}
	return e.Metadata
}

// Marshal serializes the escrow using the protobuf wire format.
func (e *Escrow) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if e.Metadata != nil {
		raw, err := e.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(e.OrderHash) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(e.OrderHash)
	}
	if len(e.PreimageHash) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(e.PreimageHash)
	}
	if len(e.Maker) != 0 {
		_ = buf.EncodeVarint(4<<3 | 2)
		_ = buf.EncodeRawBytes(e.Maker)
	}
	if len(e.Taker) != 0 {
		_ = buf.EncodeVarint(5<<3 | 2)
		_ = buf.EncodeRawBytes(e.Taker)
	}
	if e.Amount != nil {
		raw, err := e.Amount.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(6<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if e.SafetyDeposit != nil {
		raw, err := e.SafetyDeposit.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(7<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if e.DeployedAt != 0 {
		_ = buf.EncodeVarint(8 << 3)
		_ = buf.EncodeVarint(uint64(e.DeployedAt))
	}
	if len(e.Timelocks) != 0 {
		_ = buf.EncodeVarint(9<<3 | 2)
		_ = buf.EncodeRawBytes(e.Timelocks)
	}
	if e.PayoutPolicy != 0 {
		_ = buf.EncodeVarint(10 << 3)
		_ = buf.EncodeVarint(uint64(e.PayoutPolicy))
	}
	if len(e.Address) != 0 {
		_ = buf.EncodeVarint(11<<3 | 2)
		_ = buf.EncodeRawBytes(e.Address)
	}
	if e.State != 0 {
		_ = buf.EncodeVarint(12 << 3)
		_ = buf.EncodeVarint(uint64(e.State))
	}
	if len(e.Preimage) != 0 {
		_ = buf.EncodeVarint(13<<3 | 2)
		_ = buf.EncodeRawBytes(e.Preimage)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the escrow from the protobuf wire format.
func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid escrow field tag")
		}
		raw = raw[n:]
		switch tag {
		case 8 << 3, 10 << 3, 12 << 3:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid escrow varint value")
			}
			raw = raw[n:]
			switch tag {
			case 8 << 3:
				e.DeployedAt = crosslock.UnixTime(v)
			case 10 << 3:
				e.PayoutPolicy = PayoutPolicy(v)
			case 12 << 3:
				e.State = State(v)
			}
		default:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid escrow field value")
			}
			val := raw[:size]
			raw = raw[size:]
			switch tag {
			case 1<<3 | 2:
				e.Metadata = &crosslock.Metadata{}
				if err := e.Metadata.Unmarshal(val); err != nil {
					return err
				}
			case 2<<3 | 2:
				e.OrderHash = append([]byte(nil), val...)
			case 3<<3 | 2:
				e.PreimageHash = append([]byte(nil), val...)
			case 4<<3 | 2:
				e.Maker = append([]byte(nil), val...)
			case 5<<3 | 2:
				e.Taker = append([]byte(nil), val...)
			case 6<<3 | 2:
				e.Amount = &coin.Coin{}
				if err := e.Amount.Unmarshal(val); err != nil {
					return err
				}
			case 7<<3 | 2:
				e.SafetyDeposit = &coin.Coin{}
				if err := e.SafetyDeposit.Unmarshal(val); err != nil {
					return err
				}
			case 9<<3 | 2:
				e.Timelocks = append([]byte(nil), val...)
			case 11<<3 | 2:
				e.Address = append([]byte(nil), val...)
			case 13<<3 | 2:
				e.Preimage = append([]byte(nil), val...)
			default:
				return errors.Wrapf(errors.ErrInput, "unknown escrow field %d", tag>>3)
			}
		}
	}
	return nil
}

// Marshal serializes the window schedule using the protobuf wire format.
// This is the transport encoding. Storage uses Pack.
func (t *Timelocks) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if t.DeployedAt != 0 {
		_ = buf.EncodeVarint(1 << 3)
		_ = buf.EncodeVarint(uint64(t.DeployedAt))
	}
	if t.Withdrawal != 0 {
		_ = buf.EncodeVarint(2 << 3)
		_ = buf.EncodeVarint(uint64(t.Withdrawal))
	}
	if t.PublicWithdrawal != 0 {
		_ = buf.EncodeVarint(3 << 3)
		_ = buf.EncodeVarint(uint64(t.PublicWithdrawal))
	}
	if t.Cancellation != 0 {
		_ = buf.EncodeVarint(4 << 3)
		_ = buf.EncodeVarint(uint64(t.Cancellation))
	}
	if t.PublicCancellation != 0 {
		_ = buf.EncodeVarint(5 << 3)
		_ = buf.EncodeVarint(uint64(t.PublicCancellation))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the window schedule. Values wider than 32 bits are
// rejected, never truncated.
func (t *Timelocks) Unmarshal(raw []byte) error {
	*t = Timelocks{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid timelocks field tag")
		}
		raw = raw[n:]
		v, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid timelocks value")
		}
		raw = raw[n:]
		if v > math.MaxUint32 {
			return errors.Wrapf(ErrInvalidTimelocks, "window value %d exceeds 32 bits", v)
		}
		switch tag {
		case 1 << 3:
			t.DeployedAt = uint32(v)
		case 2 << 3:
			t.Withdrawal = uint32(v)
		case 3 << 3:
			t.PublicWithdrawal = uint32(v)
		case 4 << 3:
			t.Cancellation = uint32(v)
		case 5 << 3:
			t.PublicCancellation = uint32(v)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown timelocks field %d", tag>>3)
		}
	}
	return nil
}

// CreateEscrowMsg registers a new escrow instance and funds it from the
// maker wallet.
type CreateEscrowMsg struct {
	Metadata      *crosslock.Metadata
	OrderHash     []byte
	PreimageHash  []byte
	Maker         crosslock.Address
	Taker         crosslock.Address
	Amount        *coin.Coin
	SafetyDeposit *coin.Coin
	Timelocks     Timelocks
	PayoutPolicy  PayoutPolicy
}

func (msg *CreateEscrowMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *CreateEscrowMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.OrderHash) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(msg.OrderHash)
	}
	if len(msg.PreimageHash) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(msg.PreimageHash)
	}
	if len(msg.Maker) != 0 {
		_ = buf.EncodeVarint(4<<3 | 2)
		_ = buf.EncodeRawBytes(msg.Maker)
	}
	if len(msg.Taker) != 0 {
		_ = buf.EncodeVarint(5<<3 | 2)
		_ = buf.EncodeRawBytes(msg.Taker)
	}
	if msg.Amount != nil {
		raw, err := msg.Amount.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(6<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if msg.SafetyDeposit != nil {
		raw, err := msg.SafetyDeposit.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(7<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	raw, err := msg.Timelocks.Marshal()
	if err != nil {
		return nil, err
	}
	if len(raw) != 0 {
		_ = buf.EncodeVarint(8<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if msg.PayoutPolicy != 0 {
		_ = buf.EncodeVarint(9 << 3)
		_ = buf.EncodeVarint(uint64(msg.PayoutPolicy))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *CreateEscrowMsg) Unmarshal(raw []byte) error {
	*msg = CreateEscrowMsg{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid message field tag")
		}
		raw = raw[n:]
		if tag == 9<<3 {
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid payout policy value")
			}
			raw = raw[n:]
			msg.PayoutPolicy = PayoutPolicy(v)
			continue
		}
		size, n := proto.DecodeVarint(raw)
		raw = raw[n:]
		if n == 0 || uint64(len(raw)) < size {
			return errors.Wrap(errors.ErrInput, "invalid message field value")
		}
		val := raw[:size]
		raw = raw[size:]
		switch tag {
		case 1<<3 | 2:
			msg.Metadata = &crosslock.Metadata{}
			if err := msg.Metadata.Unmarshal(val); err != nil {
				return err
			}
		case 2<<3 | 2:
			msg.OrderHash = append([]byte(nil), val...)
		case 3<<3 | 2:
			msg.PreimageHash = append([]byte(nil), val...)
		case 4<<3 | 2:
			msg.Maker = append([]byte(nil), val...)
		case 5<<3 | 2:
			msg.Taker = append([]byte(nil), val...)
		case 6<<3 | 2:
			msg.Amount = &coin.Coin{}
			if err := msg.Amount.Unmarshal(val); err != nil {
				return err
			}
		case 7<<3 | 2:
			msg.SafetyDeposit = &coin.Coin{}
			if err := msg.SafetyDeposit.Unmarshal(val); err != nil {
				return err
			}
		case 8<<3 | 2:
			if err := msg.Timelocks.Unmarshal(val); err != nil {
				return err
			}
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}

// WithdrawMsg claims the escrowed funds by revealing the preimage of the
// hash commitment.
type WithdrawMsg struct {
	Metadata  *crosslock.Metadata
	OrderHash []byte
	Preimage  []byte
}

func (msg *WithdrawMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *WithdrawMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.OrderHash) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(msg.OrderHash)
	}
	if len(msg.Preimage) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(msg.Preimage)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *WithdrawMsg) Unmarshal(raw []byte) error {
	*msg = WithdrawMsg{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid message field tag")
		}
		raw = raw[n:]
		size, n := proto.DecodeVarint(raw)
		raw = raw[n:]
		if n == 0 || uint64(len(raw)) < size {
			return errors.Wrap(errors.ErrInput, "invalid message field value")
		}
		val := raw[:size]
		raw = raw[size:]
		switch tag {
		case 1<<3 | 2:
			msg.Metadata = &crosslock.Metadata{}
			if err := msg.Metadata.Unmarshal(val); err != nil {
				return err
			}
		case 2<<3 | 2:
			msg.OrderHash = append([]byte(nil), val...)
		case 3<<3 | 2:
			msg.Preimage = append([]byte(nil), val...)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}

// CancelMsg returns the escrowed funds to the maker once the cancellation
// boundary has passed.
type CancelMsg struct {
	Metadata  *crosslock.Metadata
	OrderHash []byte
}

func (msg *CancelMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *CancelMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.OrderHash) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(msg.OrderHash)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *CancelMsg) Unmarshal(raw []byte) error {
	*msg = CancelMsg{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid message field tag")
		}
		raw = raw[n:]
		size, n := proto.DecodeVarint(raw)
		raw = raw[n:]
		if n == 0 || uint64(len(raw)) < size {
			return errors.Wrap(errors.ErrInput, "invalid message field value")
		}
		val := raw[:size]
		raw = raw[size:]
		switch tag {
		case 1<<3 | 2:
			msg.Metadata = &crosslock.Metadata{}
			if err := msg.Metadata.Unmarshal(val); err != nil {
				return err
			}
		case 2<<3 | 2:
			msg.OrderHash = append([]byte(nil), val...)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}
