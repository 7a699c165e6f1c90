package orm

import (
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// MultiRef holds a sorted set of references to other objects. It is used as
// the storage format of non-unique secondary indexes.
type MultiRef struct {
	Refs [][]byte
}

func (m *MultiRef) GetRefs() [][]byte {
	if m == nil {
		return nil
	}
	return m.Refs
}

// Size returns the number of references in the set.
func (m *MultiRef) Size() int {
	return len(m.Refs)
}

// Marshal serializes the reference set using the protobuf wire format.
func (m *MultiRef) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	for _, ref := range m.Refs {
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(ref)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the reference set from the protobuf wire format.
func (m *MultiRef) Unmarshal(raw []byte) error {
	m.Refs = nil
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid multiref field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid reference value")
			}
			m.Refs = append(m.Refs, append([]byte(nil), raw[:size]...))
			raw = raw[size:]
		default:
			return errors.Wrapf(errors.ErrInput, "unknown multiref field %d", tag>>3)
		}
	}
	return nil
}

// Counter is a simple wrapper around an integer value. It is used mainly in
// tests as the most minimal model implementation.
type Counter struct {
	Count int64
}

func (c *Counter) GetCount() int64 {
	if c == nil {
		return 0
	}
	return c.Count
}

// Marshal serializes the counter using the protobuf wire format.
func (c *Counter) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if c.Count != 0 {
		_ = buf.EncodeVarint(1<<3 | 0)
		_ = buf.EncodeVarint(uint64(c.Count))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the counter from the protobuf wire format.
func (c *Counter) Unmarshal(raw []byte) error {
	*c = Counter{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid counter field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid count value")
			}
			raw = raw[n:]
			c.Count = int64(v)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown counter field %d", tag>>3)
		}
	}
	return nil
}

// CounterWithID is a counter that also stores its own primary key.
type CounterWithID struct {
	ID    []byte
	Count int64
}

// Marshal serializes the counter using the protobuf wire format.
func (c *CounterWithID) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if len(c.ID) != 0 {
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(c.ID)
	}
	if c.Count != 0 {
		_ = buf.EncodeVarint(2<<3 | 0)
		_ = buf.EncodeVarint(uint64(c.Count))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the counter from the protobuf wire format.
func (c *CounterWithID) Unmarshal(raw []byte) error {
	*c = CounterWithID{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid counter field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid id value")
			}
			c.ID = append([]byte(nil), raw[:size]...)
			raw = raw[size:]
		case 2<<3 | 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid count value")
			}
			raw = raw[n:]
			c.Count = int64(v)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown counter field %d", tag>>3)
		}
	}
	return nil
}
