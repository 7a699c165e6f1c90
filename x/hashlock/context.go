package hashlock

import (
	"context"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/x"
)

type contextKey int // local to the hashlock module

const (
	contextKeyPreimage contextKey = iota
)

// withPreimage is a private method, as only this module
// can add a preimage condition
func withPreimage(ctx crosslock.Context, preimage []byte) crosslock.Context {
	return context.WithValue(ctx, contextKeyPreimage,
		PreimageCondition(preimage))
}

// Authenticate implements x.Authenticator and provides
// authentication based on revealed hash preimages.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns which preimages have authorized the current Context.
// May be nil
func (a Authenticate) GetConditions(ctx crosslock.Context) []crosslock.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyPreimage).(crosslock.Condition)
	if val == nil {
		return nil
	}
	return []crosslock.Condition{val}
}

// HasAddress returns true if the given address
// had the preimage condition in the current Context.
func (a Authenticate) HasAddress(ctx crosslock.Context, addr crosslock.Address) bool {
	val, _ := ctx.Value(contextKeyPreimage).(crosslock.Condition)
	if val != nil && val.Address().Equals(addr) {
		return true
	}
	return false
}
