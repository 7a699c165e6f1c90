package locktest

import (
	crosslock "github.com/crosslock-one/crosslock"
)

// Tx is a mock implementation of the crosslock.Tx interface. Use it to
// wrap a message so that it can be processed by handlers in tests.
type Tx struct {
	// Msg is the message that this transaction is carrying.
	Msg crosslock.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ crosslock.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (crosslock.Msg, error) {
	if tx.Err != nil {
		return tx.Msg, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Unmarshal(b []byte) error {
	if tx.Err != nil {
		return tx.Err
	}
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	panic("not implemented")
}

// Msg is a mock implementation of the crosslock.Msg interface.
type Msg struct {
	// RoutePath is returned by the Path method.
	RoutePath string
	// Serialized is returned by the Marshal method.
	Serialized []byte
	// Err if set is returned by Marshal, Unmarshal and Validate.
	Err error
}

var _ crosslock.Msg = (*Msg)(nil)

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Serialized, nil
}

func (m *Msg) Unmarshal(b []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Serialized = b
	return nil
}

func (m *Msg) Path() string {
	return m.RoutePath
}
