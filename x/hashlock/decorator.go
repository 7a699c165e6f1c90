package hashlock

import (
	crosslock "github.com/crosslock-one/crosslock"
)

// Decorator adds conditions to the context based on preimages
type Decorator struct{}

var _ crosslock.Decorator = Decorator{}

// NewDecorator returns a default hashlock decorator
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies the preimage before calling down the stack.
func (d Decorator) Check(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx, next crosslock.Checker) (*crosslock.CheckResult, error) {
	ctx = d.withPreimage(ctx, tx)
	return next.Check(ctx, store, tx)
}

// Deliver verifies the preimage before calling down the stack.
func (d Decorator) Deliver(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx, next crosslock.Deliverer) (*crosslock.DeliverResult, error) {
	ctx = d.withPreimage(ctx, tx)
	return next.Deliver(ctx, store, tx)
}

// withPreimage adds the hash preimage condition to the context if the Tx
// supports this functionality, and there is a preimage present.
func (d Decorator) withPreimage(ctx crosslock.Context, tx crosslock.Tx) crosslock.Context {
	if hk, ok := tx.(HashKeyTx); ok {
		preimage := hk.GetPreimage()
		if preimage != nil {
			ctx = withPreimage(ctx, preimage)
		}
	}
	return ctx
}
