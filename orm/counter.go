package orm

var _ Model = (*Counter)(nil)
var _ Model = (*CounterWithID)(nil)

// NewCounter returns an object wrapping a counter model with the given key.
func NewCounter(key []byte) *SimpleObj {
	return NewSimpleObj(key, new(Counter))
}

// Copy produces a new copy to fulfill the Model interface
func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}

// Validate is always successful
func (c *Counter) Validate() error {
	return nil
}

// SetID is a minimal implementation, useful when the ID is a separate field
func (c *CounterWithID) SetID(id []byte) error {
	c.ID = id
	return nil
}

// Copy produces a new copy to fulfill the Model interface
func (c *CounterWithID) Copy() CloneableData {
	return &CounterWithID{
		ID:    c.ID,
		Count: c.Count,
	}
}

// Validate is always successful
func (c *CounterWithID) Validate() error {
	return nil
}
