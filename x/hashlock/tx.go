package hashlock

import (
	"bytes"
	"crypto/sha256"

	crosslock "github.com/crosslock-one/crosslock"
)

// HashKeyTx is an optional interface for a Tx that allows
// it to provide Keys (Preimages) to open HashLocks
type HashKeyTx interface {
	// GetPreimage should return a hash preimage if provided
	// or nil if not included in this tx
	GetPreimage() []byte
}

// Hash returns the sha256 commitment of given preimage. Both swap modules
// compare revealed secrets against commitments produced by this function.
func Hash(preimage []byte) []byte {
	h := sha256.Sum256(preimage)
	return h[:]
}

// PreimageMatches reports whether the preimage hashes to the given
// commitment.
func PreimageMatches(preimage, commitment []byte) bool {
	return bytes.Equal(Hash(preimage), commitment)
}

// PreimageCondition calculates a sha256 hash and then wraps it in a
// condition.
func PreimageCondition(preimage []byte) crosslock.Condition {
	return crosslock.NewCondition("hash", "sha256", Hash(preimage))
}
