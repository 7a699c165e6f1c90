package crypto

import (
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// PublicKey is a serializable public key. The key algorithm is encoded
// in the set member of the union.
type PublicKey struct {
	Pub isPublicKeyPub
}

type isPublicKeyPub interface {
	isPublicKeyPub()
}

// PublicKey_Ed25519 holds raw ed25519 public key bytes.
type PublicKey_Ed25519 struct {
	Ed25519 []byte
}

func (*PublicKey_Ed25519) isPublicKeyPub() {}

func (m *PublicKey) GetPub() isPublicKeyPub {
	if m != nil {
		return m.Pub
	}
	return nil
}

func (m *PublicKey) GetEd25519() []byte {
	if p, ok := m.GetPub().(*PublicKey_Ed25519); ok {
		return p.Ed25519
	}
	return nil
}

func (m *PublicKey) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if p, ok := m.GetPub().(*PublicKey_Ed25519); ok {
		if err := buf.EncodeVarint(1<<3 | 2); err != nil {
			return nil, err
		}
		if err := buf.EncodeRawBytes(p.Ed25519); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (m *PublicKey) Unmarshal(raw []byte) error {
	m.Pub = nil
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			val, rest, err := decodeBytes(raw)
			if err != nil {
				return err
			}
			raw = rest
			m.Pub = &PublicKey_Ed25519{Ed25519: val}
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field tag %d", tag)
		}
	}
	return nil
}

// PrivateKey is a serializable private key. The key algorithm is
// encoded in the set member of the union.
type PrivateKey struct {
	Priv isPrivateKeyPriv
}

type isPrivateKeyPriv interface {
	isPrivateKeyPriv()
}

// PrivateKey_Ed25519 holds raw ed25519 private key bytes.
type PrivateKey_Ed25519 struct {
	Ed25519 []byte
}

func (*PrivateKey_Ed25519) isPrivateKeyPriv() {}

func (m *PrivateKey) GetPriv() isPrivateKeyPriv {
	if m != nil {
		return m.Priv
	}
	return nil
}

func (m *PrivateKey) GetEd25519() []byte {
	if p, ok := m.GetPriv().(*PrivateKey_Ed25519); ok {
		return p.Ed25519
	}
	return nil
}

func (m *PrivateKey) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if p, ok := m.GetPriv().(*PrivateKey_Ed25519); ok {
		if err := buf.EncodeVarint(1<<3 | 2); err != nil {
			return nil, err
		}
		if err := buf.EncodeRawBytes(p.Ed25519); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (m *PrivateKey) Unmarshal(raw []byte) error {
	m.Priv = nil
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			val, rest, err := decodeBytes(raw)
			if err != nil {
				return err
			}
			raw = rest
			m.Priv = &PrivateKey_Ed25519{Ed25519: val}
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field tag %d", tag)
		}
	}
	return nil
}

// Signature is a serializable signature. The signature algorithm is
// encoded in the set member of the union.
type Signature struct {
	Sig isSignatureSig
}

type isSignatureSig interface {
	isSignatureSig()
}

// Signature_Ed25519 holds raw ed25519 signature bytes.
type Signature_Ed25519 struct {
	Ed25519 []byte
}

func (*Signature_Ed25519) isSignatureSig() {}

func (m *Signature) GetSig() isSignatureSig {
	if m != nil {
		return m.Sig
	}
	return nil
}

func (m *Signature) GetEd25519() []byte {
	if s, ok := m.GetSig().(*Signature_Ed25519); ok {
		return s.Ed25519
	}
	return nil
}

func (m *Signature) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if s, ok := m.GetSig().(*Signature_Ed25519); ok {
		if err := buf.EncodeVarint(1<<3 | 2); err != nil {
			return nil, err
		}
		if err := buf.EncodeRawBytes(s.Ed25519); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (m *Signature) Unmarshal(raw []byte) error {
	m.Sig = nil
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 2:
			val, rest, err := decodeBytes(raw)
			if err != nil {
				return err
			}
			raw = rest
			m.Sig = &Signature_Ed25519{Ed25519: val}
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field tag %d", tag)
		}
	}
	return nil
}

func decodeBytes(raw []byte) ([]byte, []byte, error) {
	size, n := proto.DecodeVarint(raw)
	if n == 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "invalid length")
	}
	raw = raw[n:]
	if uint64(len(raw)) < size {
		return nil, nil, errors.Wrap(errors.ErrInput, "truncated field")
	}
	val := make([]byte, size)
	copy(val, raw[:size])
	return val, raw[size:], nil
}
