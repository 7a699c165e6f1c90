package app

import (
	"fmt"
	"regexp"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
)

// isPath is the RegExp to ensure the routes make sense.
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the registered handler.
type Router struct {
	handlers map[string]crosslock.Handler
}

var _ crosslock.Registry = (*Router)(nil)
var _ crosslock.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]crosslock.Handler),
	}
}

// Handle implements the Registry interface. This function panics if a message
// path is invalid or a handler for given message is already registered.
func (r *Router) Handle(m crosslock.Msg, h crosslock.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("re-registering route %q", path))
	}
	r.handlers[path] = h
}

// Handler returns the registered Handler for this message path. If no path is
// registered, it returns a handler that always fails with a not found error.
func (r *Router) Handler(path string) crosslock.Handler {
	h, ok := r.handlers[path]
	if !ok {
		return notFoundHandler(path)
	}
	return h
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h := r.Handler(msg.Path())
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h := r.Handler(msg.Path())
	return h.Deliver(ctx, db, tx)
}

// notFoundHandler always returns a not found error. It is returned by the
// router when no handler is registered for a queried message path.
type notFoundHandler string

func (path notFoundHandler) Check(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx crosslock.Context, db crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
