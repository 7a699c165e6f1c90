package hashlock

import (
	"context"
	"testing"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/locktest"
	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/store"
)

func TestDecorator(t *testing.T) {
	h := new(HashCheckHandler)
	d := NewDecorator()
	stack := locktest.Decorate(h, d)

	db := store.MemStore()
	bg := context.Background()

	hashTx := func(payload, preimage []byte) PreimageTx {
		return PreimageTx{
			Tx: &locktest.Tx{
				Msg: &locktest.Msg{Serialized: payload},
			},
			Preimage: preimage,
		}
	}

	cases := map[string]struct {
		tx    crosslock.Tx
		perms []crosslock.Condition
	}{
		"doesn't support hashlock interface": {
			tx: &locktest.Tx{
				Msg: &locktest.Msg{
					Serialized: []byte{1, 2, 3},
				},
			},
		},
		"correct interface but no content": {
			tx: hashTx([]byte("john"), nil),
		},
		"hash a preimage": {
			tx:    hashTx([]byte("foo"), []byte("bar")),
			perms: []crosslock.Condition{PreimageCondition([]byte("bar"))},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := stack.Check(bg, db, tc.tx)
			assert.Nil(t, err)
			assert.Equal(t, tc.perms, h.Perms)

			_, err = stack.Deliver(bg, db, tc.tx)
			assert.Nil(t, err)
			assert.Equal(t, tc.perms, h.Perms)
		})
	}
}

// HashCheckHandler stores the seen conditions on each call
type HashCheckHandler struct {
	Perms []crosslock.Condition
}

var _ crosslock.Handler = (*HashCheckHandler)(nil)

func (s *HashCheckHandler) Check(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx) (*crosslock.CheckResult, error) {
	s.Perms = Authenticate{}.GetConditions(ctx)
	return &crosslock.CheckResult{}, nil
}

func (s *HashCheckHandler) Deliver(ctx crosslock.Context, store crosslock.KVStore, tx crosslock.Tx) (*crosslock.DeliverResult, error) {
	s.Perms = Authenticate{}.GetConditions(ctx)
	return &crosslock.DeliverResult{}, nil
}

// PreimageTx fulfills the HashKeyTx interface to satisfy the decorator
type PreimageTx struct {
	crosslock.Tx
	Preimage []byte
}

var _ HashKeyTx = PreimageTx{}
var _ crosslock.Tx = PreimageTx{}

func (p PreimageTx) GetPreimage() []byte {
	return p.Preimage
}
