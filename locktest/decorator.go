package locktest

import (
	crosslock "github.com/crosslock-one/crosslock"
)

// Decorator is a mock implementation of the crosslock.Decorator
// interface. Set CheckErr or DeliverErr to force the relevant method to
// fail before calling through to the wrapped handler.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before the
	// wrapped handler is called.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before the
	// wrapped handler is called.
	DeliverErr error
}

var _ crosslock.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx, next crosslock.Checker) (*crosslock.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx, next crosslock.Deliverer) (*crosslock.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CheckCallCount returns the number of times the Check method was called.
func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

// DeliverCallCount returns the number of times the Deliver method was called.
func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

// CallCount returns the total number of times the Check and Deliver
// methods were called.
func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps a handler with a decorator, provided as a convenience
// so that a decorator can be used wherever a handler is expected.
func Decorate(h crosslock.Handler, d crosslock.Decorator) crosslock.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn crosslock.Handler
	dc crosslock.Decorator
}

var _ crosslock.Handler = (*decoratedHandler)(nil)

func (h *decoratedHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	return h.dc.Check(ctx, db, tx, h.hn)
}

func (h *decoratedHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	return h.dc.Deliver(ctx, db, tx, h.hn)
}
