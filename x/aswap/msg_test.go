package aswap

import (
	"bytes"
	"testing"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/locktest"
	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/x/hashlock"
)

func validCreateMsg() *CreateOrderMsg {
	return &CreateOrderMsg{
		Metadata:           &crosslock.Metadata{Schema: 1},
		Source:             locktest.NewCondition().Address(),
		DestinationChainID: "eth-mainnet",
		DestinationToken:   "DAI",
		PreimageHash:       hashlock.Hash([]byte("secret")),
		Amount:             coin.NewCoinp(10, 0, "IOV"),
		Timeout:            4600,
		Memo:               "swap",
	}
}

func TestValidateCreateOrderMsg(t *testing.T) {
	cases := map[string]struct {
		mod      func(*CreateOrderMsg)
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			mod: func(*CreateOrderMsg) {},
			wantErrs: map[string]*errors.Error{
				"Metadata": nil,
				"Source":   nil,
				"Amount":   nil,
				"Timeout":  nil,
			},
		},
		"missing metadata": {
			mod: func(msg *CreateOrderMsg) { msg.Metadata = nil },
			wantErrs: map[string]*errors.Error{
				"Metadata": errors.ErrMetadata,
			},
		},
		"missing source": {
			mod: func(msg *CreateOrderMsg) { msg.Source = nil },
			wantErrs: map[string]*errors.Error{
				"Source": errors.ErrInput,
			},
		},
		"missing destination chain": {
			mod: func(msg *CreateOrderMsg) { msg.DestinationChainID = "" },
			wantErrs: map[string]*errors.Error{
				"DestinationChainID": errors.ErrEmpty,
			},
		},
		"missing destination token": {
			mod: func(msg *CreateOrderMsg) { msg.DestinationToken = "" },
			wantErrs: map[string]*errors.Error{
				"DestinationToken": errors.ErrEmpty,
			},
		},
		"short preimage hash": {
			mod: func(msg *CreateOrderMsg) { msg.PreimageHash = []byte("short") },
			wantErrs: map[string]*errors.Error{
				"PreimageHash": errors.ErrInput,
			},
		},
		"missing amount": {
			mod: func(msg *CreateOrderMsg) { msg.Amount = nil },
			wantErrs: map[string]*errors.Error{
				"Amount": errors.ErrAmount,
			},
		},
		"negative amount": {
			mod: func(msg *CreateOrderMsg) { msg.Amount = coin.NewCoinp(-1, 0, "IOV") },
			wantErrs: map[string]*errors.Error{
				"Amount": errors.ErrAmount,
			},
		},
		"missing timeout": {
			mod: func(msg *CreateOrderMsg) { msg.Timeout = 0 },
			wantErrs: map[string]*errors.Error{
				"Timeout": errors.ErrEmpty,
			},
		},
		"memo too long": {
			mod: func(msg *CreateOrderMsg) { msg.Memo = string(bytes.Repeat([]byte("x"), maxMemoSize+1)) },
			wantErrs: map[string]*errors.Error{
				"Memo": errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := validCreateMsg()
			tc.mod(msg)
			err := msg.Validate()
			for field, wantErr := range tc.wantErrs {
				assert.FieldError(t, err, field, wantErr)
			}
		})
	}
}

func TestValidateCompleteOrderMsg(t *testing.T) {
	msg := CompleteOrderMsg{
		Metadata: &crosslock.Metadata{Schema: 1},
		OrderID:  bytes.Repeat([]byte{1}, 32),
		Preimage: []byte("the secret"),
	}
	assert.Nil(t, msg.Validate())

	msg.Preimage = nil
	assert.FieldError(t, msg.Validate(), "Preimage", errors.ErrEmpty)

	msg.Preimage = []byte("the secret")
	msg.OrderID = []byte("short")
	assert.FieldError(t, msg.Validate(), "OrderID", errors.ErrInput)
}

func TestValidateClaimMsg(t *testing.T) {
	msg := ClaimMsg{
		Metadata: &crosslock.Metadata{Schema: 1},
		OrderID:  bytes.Repeat([]byte{1}, 32),
		Amount:   coin.NewCoinp(5, 0, "IOV"),
	}
	assert.Nil(t, msg.Validate())

	msg.Amount = coin.NewCoinp(0, 0, "IOV")
	assert.FieldError(t, msg.Validate(), "Amount", errors.ErrAmount)

	msg.Amount = nil
	assert.FieldError(t, msg.Validate(), "Amount", errors.ErrAmount)
}

func TestValidateRefundOrderMsg(t *testing.T) {
	msg := RefundOrderMsg{
		Metadata: &crosslock.Metadata{Schema: 1},
		OrderID:  bytes.Repeat([]byte{1}, 32),
	}
	assert.Nil(t, msg.Validate())

	msg.Metadata = nil
	assert.FieldError(t, msg.Validate(), "Metadata", errors.ErrMetadata)
}

func TestCreateOrderMsgCodecRoundTrip(t *testing.T) {
	msg := validCreateMsg()
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var loaded CreateOrderMsg
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, msg, &loaded)
}
