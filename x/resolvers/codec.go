package resolvers

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// AccessControl is the singleton holding the resolver allow list together
// with the owner address that is allowed to modify it.
type AccessControl struct {
	Metadata  *crosslock.Metadata
	Owner     crosslock.Address
	Resolvers []crosslock.Address
}

func (ac *AccessControl) GetMetadata() *crosslock.Metadata {
	if ac == nil {
		return nil
	}
	return ac.Metadata
}

func (ac *AccessControl) GetOwner() crosslock.Address {
	if ac == nil {
		return nil
	}
	return ac.Owner
}

// Marshal serializes the access control using the protobuf wire format.
func (ac *AccessControl) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if ac.Metadata != nil {
		raw, err := ac.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(ac.Owner) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(ac.Owner)
	}
	for _, r := range ac.Resolvers {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(r)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the access control from the protobuf wire format.
func (ac *AccessControl) Unmarshal(raw []byte) error {
	*ac = AccessControl{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid access control field tag")
		}
		raw = raw[n:]
		size, n := proto.DecodeVarint(raw)
		raw = raw[n:]
		if n == 0 || uint64(len(raw)) < size {
			return errors.Wrap(errors.ErrInput, "invalid access control field value")
		}
		val := raw[:size]
		raw = raw[size:]
		switch tag {
		case 1<<3 | 2:
			ac.Metadata = &crosslock.Metadata{}
			if err := ac.Metadata.Unmarshal(val); err != nil {
				return err
			}
		case 2<<3 | 2:
			ac.Owner = append([]byte(nil), val...)
		case 3<<3 | 2:
			ac.Resolvers = append(ac.Resolvers, append([]byte(nil), val...))
		default:
			return errors.Wrapf(errors.ErrInput, "unknown access control field %d", tag>>3)
		}
	}
	return nil
}

// UpdateResolversMsg modifies the resolver allow list. It must be signed by
// the current owner.
type UpdateResolversMsg struct {
	Metadata    *crosslock.Metadata
	Authorize   []crosslock.Address
	Deauthorize []crosslock.Address
}

func (msg *UpdateResolversMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *UpdateResolversMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	for _, a := range msg.Authorize {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(a)
	}
	for _, a := range msg.Deauthorize {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeRawBytes(a)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *UpdateResolversMsg) Unmarshal(raw []byte) error {
	*msg = UpdateResolversMsg{}
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
			msg.Authorize = append(msg.Authorize, append([]byte(nil), val...))
		case 3<<3 | 2:
			msg.Deauthorize = append(msg.Deauthorize, append([]byte(nil), val...))
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}
