package cash

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// Set keeps the actual coin balance of a single wallet.
type Set struct {
	Metadata *crosslock.Metadata
	Coins    []*coin.Coin
}

func (s *Set) GetMetadata() *crosslock.Metadata {
	if s == nil {
		return nil
	}
	return s.Metadata
}

func (s *Set) GetCoins() []*coin.Coin {
	if s == nil {
		return nil
	}
	return s.Coins
}

// Marshal serializes the set using the protobuf wire format.
func (s *Set) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if s.Metadata != nil {
		raw, err := s.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	for _, c := range s.Coins {
		raw, err := c.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the set from the protobuf wire format.
func (s *Set) Unmarshal(raw []byte) error {
	*s = Set{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid set field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid metadata value")
			}
			s.Metadata = &crosslock.Metadata{}
			if err := s.Metadata.Unmarshal(raw[:size]); err != nil {
				return err
			}
			raw = raw[size:]
		case 2<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid coins value")
			}
			var c coin.Coin
			if err := c.Unmarshal(raw[:size]); err != nil {
				return err
			}
			s.Coins = append(s.Coins, &c)
			raw = raw[size:]
		default:
			return errors.Wrapf(errors.ErrInput, "unknown set field %d", tag>>3)
		}
	}
	return nil
}

// SendMsg is a request to move coins from the source to the destination
// address.
type SendMsg struct {
	Metadata    *crosslock.Metadata
	Source      crosslock.Address
	Destination crosslock.Address
	Amount      *coin.Coin
	// Memo is a max 128 character comment attached to the transfer.
	Memo string
	// Ref is a max 64 byte binary reference to another transaction.
	Ref []byte
}

func (msg *SendMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *SendMsg) Marshal() ([]byte, error) {
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
	if len(msg.Destination) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(msg.Destination)
	}
	if msg.Amount != nil {
		raw, err := msg.Amount.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(4<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.Memo) != 0 {
		_ = buf.EncodeVarint(5<<3 | 2)
		_ = buf.EncodeStringBytes(msg.Memo)
	}
	if len(msg.Ref) != 0 {
		_ = buf.EncodeVarint(6<<3 | 2)
		_ = buf.EncodeRawBytes(msg.Ref)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *SendMsg) Unmarshal(raw []byte) error {
	*msg = SendMsg{}
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
			msg.Source = append(crosslock.Address(nil), val...)
		case 3<<3 | 2:
			msg.Destination = append(crosslock.Address(nil), val...)
		case 4<<3 | 2:
			msg.Amount = &coin.Coin{}
			if err := msg.Amount.Unmarshal(val); err != nil {
				return err
			}
		case 5<<3 | 2:
			msg.Memo = string(val)
		case 6<<3 | 2:
			msg.Ref = append([]byte(nil), val...)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}
