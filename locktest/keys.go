package locktest

import (
	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/crypto"
)

// NewKey returns a newly generated private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a newly generated key.
func NewCondition() crosslock.Condition {
	return NewKey().PublicKey().Condition()
}
