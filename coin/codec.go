package coin

import (
	"github.com/crosslock-one/crosslock/errors"
	"github.com/gogo/protobuf/proto"
)

// Coin can hold any amount between -1 billion and +1 billion at steps of
// 10^-9. It is a fixed-point decimal representation of a monetary value, with
// a whole and a fractional part.
//
// Fractional values are expressed in units of 10^-9. Whole and fractional
// parts must have the same sign.
type Coin struct {
	// Whole coins, -10^15 < whole < 10^15
	Whole int64
	// Billionth of coins. 0 <= abs(fractional) < 10^9
	// If fractional != 0, must have same sign as whole.
	Fractional int64
	// Ticker is a currency code, three to four upper-case letters.
	Ticker string
}

func (c *Coin) GetWhole() int64 {
	if c == nil {
		return 0
	}
	return c.Whole
}

func (c *Coin) GetFractional() int64 {
	if c == nil {
		return 0
	}
	return c.Fractional
}

func (c *Coin) GetTicker() string {
	if c == nil {
		return ""
	}
	return c.Ticker
}

// Marshal serializes the coin using the protobuf wire format.
func (c *Coin) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if c.Whole != 0 {
		_ = buf.EncodeVarint(1<<3 | 0)
		_ = buf.EncodeVarint(uint64(c.Whole))
	}
	if c.Fractional != 0 {
		_ = buf.EncodeVarint(2<<3 | 0)
		_ = buf.EncodeVarint(uint64(c.Fractional))
	}
	if len(c.Ticker) != 0 {
		_ = buf.EncodeVarint(3<<3 | 2)
		_ = buf.EncodeStringBytes(c.Ticker)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the coin from the protobuf wire format.
func (c *Coin) Unmarshal(raw []byte) error {
	*c = Coin{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "invalid coin field tag")
		}
		raw = raw[n:]
		switch tag {
		case 1<<3 | 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid whole value")
			}
			raw = raw[n:]
			c.Whole = int64(v)
		case 2<<3 | 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "invalid fractional value")
			}
			raw = raw[n:]
			c.Fractional = int64(v)
		case 3<<3 | 2:
			size, n := proto.DecodeVarint(raw)
			raw = raw[n:]
			if n == 0 || uint64(len(raw)) < size {
				return errors.Wrap(errors.ErrInput, "invalid ticker value")
			}
			c.Ticker = string(raw[:size])
			raw = raw[size:]
		default:
			return errors.Wrapf(errors.ErrInput, "unknown coin field %d", tag>>3)
		}
	}
	return nil
}
