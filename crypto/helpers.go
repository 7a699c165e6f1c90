package crypto

import (
	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
)

// ExtensionName is used for the conditions we derive from signatures.
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() crosslock.Condition
}

// Signer is the functionality we use from a private key. There is no
// serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// unwrap a PublicKey struct into a PubKey interface
func (p PublicKey) unwrap() PubKey {
	pub := p.GetPub()
	if pub == nil {
		return nil
	}
	return pub.(PubKey)
}

// unwrap a PrivateKey struct into a Signer interface
func (p PrivateKey) unwrap() Signer {
	priv := p.GetPriv()
	if priv == nil {
		return nil
	}
	return priv.(Signer)
}

var _ PubKey = (*PublicKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	in := p.unwrap()
	if in == nil {
		return false
	}
	return in.Verify(message, sig)
}

// Condition generates a Condition object to represent a valid
// signature.
//    p.Condition().Address()
// will return an Address if needed.
func (p *PublicKey) Condition() crosslock.Condition {
	in := p.unwrap()
	if in == nil {
		return nil
	}
	return in.Condition()
}

// Address is a convenience method on top of the Condition.
func (p *PublicKey) Address() crosslock.Address {
	return p.Condition().Address()
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	in := p.unwrap()
	if in == nil {
		return nil, errors.Wrap(errors.ErrState, "private key is empty")
	}
	return in.Sign(message)
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	return p.unwrap().PublicKey()
}
