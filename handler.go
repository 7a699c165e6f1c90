package crosslock

import (
	"encoding/json"

	"github.com/crosslock-one/crosslock/errors"
)

// Handler is a core engine that can process a few specific messages,
// for example "move coins to the escrow" or "release with a preimage".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or savepoint handling, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of provided type.
	// Using a message with an invalid path or assigning the same message
	// type more than a single handler panics.
	Handle(msg Msg, h Handler)
}

// Options are the app options
// Each extension can look up its key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Stream expects an array of json elements and allows to process them
// sequentially, avoiding loading the whole data set into the memory.
func (o Options) Stream(key string) func(obj interface{}) error {
	raw, ok := o[key]
	if !ok {
		return func(interface{}) error {
			return errors.Wrapf(errors.ErrNotFound, "no data under %q", key)
		}
	}
	var chunks []json.RawMessage
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return func(interface{}) error {
			return errors.Wrap(err, "cannot decode array")
		}
	}
	return func(obj interface{}) error {
		if len(chunks) == 0 {
			return errors.ErrIteratorDone
		}
		c := chunks[0]
		chunks = chunks[1:]
		return json.Unmarshal(c, obj)
	}
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
