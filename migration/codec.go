package migration

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// Schema declares the maintenance of a schema version for a single package.
type Schema struct {
	Metadata *crosslock.Metadata
	// Pkg holds the name of the package that this migration is declared
	// for.
	Pkg string
	// Version is the current schema version of the package.
	Version uint32
}

func (s *Schema) GetMetadata() *crosslock.Metadata {
	if s == nil {
		return nil
	}
	return s.Metadata
}

// Marshal serializes the schema using the protobuf wire format.
func (s *Schema) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if s.Metadata != nil {
		raw, err := s.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(s.Pkg) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeStringBytes(s.Pkg)
	}
	if s.Version != 0 {
		_ = buf.EncodeVarint(3<<3 | 0)
		_ = buf.EncodeVarint(uint64(s.Version))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the schema from the protobuf wire format.
func (s *Schema) Unmarshal(raw []byte) error {
	*s = Schema{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid schema field tag")
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
				return errors.Wrap(errors.ErrInput, "invalid pkg value")
			}
			s.Pkg = string(raw[:size])
			raw = raw[size:]
		case 3<<3 | 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid version value")
			}
			raw = raw[n:]
			s.Version = uint32(v)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown schema field %d", tag>>3)
		}
	}
	return nil
}

// UpgradeSchemaMsg advances the schema version of a single package by one.
type UpgradeSchemaMsg struct {
	Metadata *crosslock.Metadata
	// Name of the package that schema version upgrade is made for.
	Pkg string
}

func (msg *UpgradeSchemaMsg) GetMetadata() *crosslock.Metadata {
	if msg == nil {
		return nil
	}
	return msg.Metadata
}

// Marshal serializes the message using the protobuf wire format.
func (msg *UpgradeSchemaMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if msg.Metadata != nil {
		raw, err := msg.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(msg.Pkg) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeStringBytes(msg.Pkg)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (msg *UpgradeSchemaMsg) Unmarshal(raw []byte) error {
	*msg = UpgradeSchemaMsg{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid message field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid metadata value")
			}
			msg.Metadata = &crosslock.Metadata{}
			if err := msg.Metadata.Unmarshal(raw[:size]); err != nil {
				return err
			}
			raw = raw[size:]
		case 2<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid pkg value")
			}
			msg.Pkg = string(raw[:size])
			raw = raw[size:]
		default:
			return errors.Wrapf(errors.ErrInput, "unknown message field %d", tag>>3)
		}
	}
	return nil
}

// Configuration holds the migration extension setup. Schema upgrade messages
// must be signed by the admin.
type Configuration struct {
	Metadata *crosslock.Metadata `json:"metadata"`
	Admin    crosslock.Address   `json:"admin"`
}

// Marshal serializes the configuration using the protobuf wire format.
func (c *Configuration) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if c.Metadata != nil {
		raw, err := c.Metadata.Marshal()
		if err != nil {
			return nil, err
		}
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(raw)
	}
	if len(c.Admin) != 0 {
		_ = buf.EncodeVarint(2<<3 | 2)
		_ = buf.EncodeRawBytes(c.Admin)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the configuration from the protobuf wire format.
func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid configuration field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid metadata value")
			}
			c.Metadata = &crosslock.Metadata{}
			if err := c.Metadata.Unmarshal(raw[:size]); err != nil {
				return err
			}
			raw = raw[size:]
		case 2<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid admin value")
			}
			c.Admin = append(crosslock.Address(nil), raw[:size]...)
			raw = raw[size:]
		default:
			return errors.Wrapf(errors.ErrInput, "unknown configuration field %d", tag>>3)
		}
	}
	return nil
}
