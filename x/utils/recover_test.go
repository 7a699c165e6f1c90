package utils

import (
	"context"
	"testing"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/store"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := Recovery{}

	ctx := context.Background()
	kv := store.MemStore()

	// panics pass through the bare handler
	assert.Panics(t, func() { h.Check(ctx, kv, nil) })
	assert.Panics(t, func() { h.Deliver(ctx, kv, nil) })

	// but are recovered into errors by the decorator
	_, err := r.Check(ctx, kv, nil, h)
	if !errors.ErrPanic.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	_, err = r.Deliver(ctx, kv, nil, h)
	if !errors.ErrPanic.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

type panicHandler struct{}

var _ crosslock.Handler = panicHandler{}

func (panicHandler) Check(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	panic("deliver panic")
}
