package locktest

import (
	crosslock "github.com/crosslock-one/crosslock"
)

// Handler implements crosslock.Handler interface. It is a mock that
// counts calls and returns configured results.
type Handler struct {
	checkCall int
	// CheckResult is returned by a successful Check method call.
	CheckResult crosslock.CheckResult
	// CheckErr if set is returned by the Check method.
	CheckErr error

	deliverCall int
	// DeliverResult is returned by a successful Deliver method call.
	DeliverResult crosslock.DeliverResult
	// DeliverErr if set is returned by the Deliver method.
	DeliverErr error
}

var _ crosslock.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CheckCallCount returns the number of times the Check method was called.
func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

// DeliverCallCount returns the number of times the Deliver method was called.
func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// CallCount returns the total number of times the Check and Deliver
// methods were called.
func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
