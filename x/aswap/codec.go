package aswap

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// Order is a single ledger record holding the swap terms and, once revealed,
// the secret. The counter-ledger side of the swap is described by the
// destination chain and token identifiers and never touched here.
type Order struct {
	Metadata *crosslock.Metadata
	// Source is the depositor funding the order.
	Source crosslock.Address
	// DestinationChainID names the ledger the counter-leg settles on.
	DestinationChainID string
	// DestinationToken names the asset expected on the destination ledger.
	DestinationToken string
	PreimageHash     []byte
	Amount           *coin.Coin
	// Timeout is the absolute time after which the order is refundable.
	Timeout crosslock.UnixTime
	Memo    string
	// Address is the derived condition address holding the locked funds.
	Address crosslock.Address
	// Preimage is recorded exactly once, on completion.
	Preimage    []byte
	CompletedAt crosslock.UnixTime
	RefundedAt  crosslock.UnixTime
	// Claimed is the running total moved out by claims. Never exceeds
	// Amount.
	Claimed *coin.Coin
}

func (o *Order) GetMetadata() *crosslock.Metadata {
	if o == nil {
		return nil
	}
	return o.Metadata
}

// Marshal serializes the order using the protobuf wire format.
func (o *Order) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if o.Metadata != nil {
		raw, err := o.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(o.Source) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(o.Source)
	}
	if len(o.DestinationChainID) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes([]byte(o.DestinationChainID))
	}
	if len(o.DestinationToken) != 0 {
		_ = buf.EncodeVarint(4<<3 | 2)
		_ = buf.EncodeRawBytes([]byte(o.DestinationToken))
	}
	if len(o.PreimageHash) != 0 {
		_ = buf.EncodeVarint(5<<3 | 2)
		_ = buf.EncodeRawBytes(o.PreimageHash)
	}
	if o.Amount != nil {
		raw, err := o.Amount.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(6<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if o.Timeout != 0 {
		_ = buf.EncodeVarint(7 << 3)
		_ = buf.EncodeVarint(uint64(o.Timeout))
	}
	if len(o.Memo) != 0 {
		_ = buf.EncodeVarint(8<<3 | 2)
		_ = buf.EncodeRawBytes([]byte(o.Memo))
	}
	if len(o.Address) != 0 {
		_ = buf.EncodeVarint(9<<3 | 2)
		_ = buf.EncodeRawBytes(o.Address)
	}
	if len(o.Preimage) != 0 {
		_ = buf.EncodeVarint(10<<3 | 2)
		_ = buf.EncodeRawBytes(o.Preimage)
	}
	if o.CompletedAt != 0 {
		_ = buf.EncodeVarint(11 << 3)
		_ = buf.EncodeVarint(uint64(o.CompletedAt))
	}
	if o.RefundedAt != 0 {
		_ = buf.EncodeVarint(12 << 3)
		_ = buf.EncodeVarint(uint64(o.RefundedAt))
	}
	if o.Claimed != nil {
		raw, err := o.Claimed.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(13<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the order from the protobuf wire format.
func (o *Order) Unmarshal(raw []byte) error {
	*o = Order{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid order field tag")
		}
		raw = raw[n:]
		switch tag {
		case 7 << 3, 11 << 3, 12 << 3:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid order varint value")
			}
			raw = raw[n:]
			switch tag {
			case 7 << 3:
				o.Timeout = crosslock.UnixTime(v)
			case 11 << 3:
				o.CompletedAt = crosslock.UnixTime(v)
			case 12 << 3:
				o.RefundedAt = crosslock.UnixTime(v)
			}
		default:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid order field value")
			}
			val := raw[:size]
			raw = raw[size:]
			switch tag {
			case 1<<3 | 2:
				o.Metadata = &crosslock.Metadata{}
				if err := o.Metadata.Unmarshal(val); err != nil {
					return err
				}
			case 2<<3 | 2:
				o.Source = append([]byte(nil), val...)
			case 3<<3 | 2:
				o.DestinationChainID = string(val)
			case 4<<3 | 2:
				o.DestinationToken = string(val)
			case 5<<3 | 2:
				o.PreimageHash = append([]byte(nil), val...)
			case 6<<3 | 2:
				o.Amount = &coin.Coin{}
				if err := o.Amount.Unmarshal(val); err != nil {
					return err
				}
			case 8<<3 | 2:
				o.Memo = string(val)
			case 9<<3 | 2:
				o.Address = append([]byte(nil), val...)
			case 10<<3 | 2:
				o.Preimage = append([]byte(nil), val...)
			case 13<<3 | 2:
				o.Claimed = &coin.Coin{}
				if err := o.Claimed.Unmarshal(val); err != nil {
					return err
				}
			default:
				return errors.Wrapf(errors.ErrInput, "unknown order field %d", tag>>3)
			}
		}
	}
	return nil
}

// CreateOrderMsg registers a new order and locks the amount from the source
// wallet into the order address.
type CreateOrderMsg struct {
	Metadata           *crosslock.Metadata
	Source             crosslock.Address
	DestinationChainID string
	DestinationToken   string
	PreimageHash       []byte
	Amount             *coin.Coin
	Timeout            crosslock.UnixTime
	Memo               string
}

func (msg *CreateOrderMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *CreateOrderMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.Source) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(msg.Source)
	}
	if len(msg.DestinationChainID) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes([]byte(msg.DestinationChainID))
	}
	if len(msg.DestinationToken) != 0 {
		_ = buf.EncodeVarint(4<<3 | 2)
		_ = buf.EncodeRawBytes([]byte(msg.DestinationToken))
	}
	if len(msg.PreimageHash) != 0 {
		_ = buf.EncodeVarint(5<<3 | 2)
		_ = buf.EncodeRawBytes(msg.PreimageHash)
	}
	if msg.Amount != nil {
		raw, err := msg.Amount.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(6<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if msg.Timeout != 0 {
		_ = buf.EncodeVarint(7 << 3)
		_ = buf.EncodeVarint(uint64(msg.Timeout))
	}
	if len(msg.Memo) != 0 {
		_ = buf.EncodeVarint(8<<3 | 2)
		_ = buf.EncodeRawBytes([]byte(msg.Memo))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *CreateOrderMsg) Unmarshal(raw []byte) error {
	*msg = CreateOrderMsg{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid message field tag")
		}
		raw = raw[n:]
		if tag == 7<<3 {
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid timeout value")
			}
			raw = raw[n:]
			msg.Timeout = crosslock.UnixTime(v)
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
			msg.Source = append([]byte(nil), val...)
		case 3<<3 | 2:
			msg.DestinationChainID = string(val)
		case 4<<3 | 2:
			msg.DestinationToken = string(val)
		case 5<<3 | 2:
			msg.PreimageHash = append([]byte(nil), val...)
		case 6<<3 | 2:
			msg.Amount = &coin.Coin{}
			if err := msg.Amount.Unmarshal(val); err != nil {
				return err
			}
		case 8<<3 | 2:
			msg.Memo = string(val)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}

// CompleteOrderMsg records the revealed secret on an order. No funds move.
type CompleteOrderMsg struct {
	Metadata *crosslock.Metadata
	OrderID  []byte
	Preimage []byte
}

func (msg *CompleteOrderMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *CompleteOrderMsg) Marshal() ([]byte, error) {
	return marshalOrderRef(msg.Metadata, msg.OrderID, msg.Preimage)
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *CompleteOrderMsg) Unmarshal(raw []byte) error {
	*msg = CompleteOrderMsg{}
	return unmarshalOrderRef(raw, &msg.Metadata, &msg.OrderID, &msg.Preimage)
}

// ClaimMsg moves a part of a completed order's locked funds to the claiming
// resolver.
type ClaimMsg struct {
	Metadata *crosslock.Metadata
	OrderID  []byte
	Amount   *coin.Coin
}

func (msg *ClaimMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *ClaimMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.OrderID) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(msg.OrderID)
	}
	if msg.Amount != nil {
		raw, err := msg.Amount.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *ClaimMsg) Unmarshal(raw []byte) error {
	*msg = ClaimMsg{}
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
			msg.OrderID = append([]byte(nil), val...)
		case 3<<3 | 2:
			msg.Amount = &coin.Coin{}
			if err := msg.Amount.Unmarshal(val); err != nil {
				return err
			}
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}

// RefundOrderMsg returns the locked funds of an expired, uncompleted order
// to its depositor.
type RefundOrderMsg struct {
	Metadata *crosslock.Metadata
	OrderID  []byte
}

func (msg *RefundOrderMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *RefundOrderMsg) Marshal() ([]byte, error) {
	return marshalOrderRef(msg.Metadata, msg.OrderID, nil)
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *RefundOrderMsg) Unmarshal(raw []byte) error {
	*msg = RefundOrderMsg{}
	var rest []byte
	if err := unmarshalOrderRef(raw, &msg.Metadata, &msg.OrderID, &rest); err != nil {
		return err
	}
	if len(rest) != 0 {
		return errors.Wrap(errors.ErrInput, "unknown message field 3")
	}
	return nil
}

// marshalOrderRef encodes the common {metadata, order id, payload} message
// shape shared by the complete and refund messages.
func marshalOrderRef(meta *crosslock.Metadata, orderID, payload []byte) ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if meta != nil {
		raw, err := meta.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(orderID) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(orderID)
	}
	if len(payload) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(payload)
	}
	return buf.Bytes(), nil
}

func unmarshalOrderRef(raw []byte, meta **crosslock.Metadata, orderID, payload *[]byte) error {
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
			*meta = &crosslock.Metadata{}
			if err := (*meta).Unmarshal(val); err != nil {
				return err
			}
		case 2<<3 | 2:
			*orderID = append([]byte(nil), val...)
		case 3<<3 | 2:
			*payload = append([]byte(nil), val...)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}
