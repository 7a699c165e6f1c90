package crosslock

import (
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// Metadata carries the schema version of the entity that contains it. Every
// persisted model and every message must embed a Metadata field so that the
// data can be migrated when the schema evolves.
type Metadata struct {
	Schema uint32
}

var _ Persistent = (*Metadata)(nil)

// Marshal serializes this structure using the protobuf wire format.
func (m *Metadata) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if m.Schema != 0 {
		_ = buf.EncodeVarint(1<<3 | 0)
		_ = buf.EncodeVarint(uint64(m.Schema))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the structure from the protobuf wire format.
func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid metadata field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid metadata schema")
			}
			raw = raw[n:]
			m.Schema = uint32(v)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown metadata field %d", tag>>3)
		}
	}
	return nil
}

// Validate returns an error if the metadata is not valid.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version below one")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when
// implementing orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
