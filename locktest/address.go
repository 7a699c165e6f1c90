package locktest

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	crosslock "github.com/crosslock-one/crosslock"
)

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) crosslock.Address {
	raw := make([]byte, crosslock.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := crosslock.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// DecodeAddr takes a hex encoded address string and returns its raw
// representation as an address. This function ensures that the returned
// value is a valid address.
func DecodeAddr(t testing.TB, encoded string) crosslock.Address {
	t.Helper()
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("cannot decode hex string: %s", err)
	}
	a := crosslock.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("decoded string is not a valid address: %s", err)
	}
	return a
}
