package utils

import (
	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ crosslock.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx, next crosslock.Checker) (_ *crosslock.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx, next crosslock.Deliverer) (_ *crosslock.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
