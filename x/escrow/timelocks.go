package escrow

import (
	"encoding/binary"

	"github.com/crosslock-one/crosslock/errors"
)

// packedTimelocksSize is the storage size of a packed window schedule, five
// 32 bit fields in 160 bits.
const packedTimelocksSize = 20

// Timelocks holds the five ordered time markers of an escrow, expressed in
// seconds since deployment. DeployedAt is the zero reference and must stay
// zero, the remaining markers must be non-decreasing.
type Timelocks struct {
	DeployedAt         uint32
	Withdrawal         uint32
	PublicWithdrawal   uint32
	Cancellation       uint32
	PublicCancellation uint32
}

// Validate ensures the window schedule is monotonic.
func (t Timelocks) Validate() error {
	if t.DeployedAt != 0 {
		return errors.Wrap(ErrInvalidTimelocks, "deployed at offset must be zero")
	}
	if t.DeployedAt > t.Withdrawal ||
		t.Withdrawal > t.PublicWithdrawal ||
		t.PublicWithdrawal > t.Cancellation ||
		t.Cancellation > t.PublicCancellation {
		return errors.Wrap(ErrInvalidTimelocks, "windows must be non-decreasing")
	}
	return nil
}

// Pack encodes the five markers into a 160 bit big endian value. Both sides
// of a swap must produce byte identical encodings for the same schedule.
func (t Timelocks) Pack() []byte {
	raw := make([]byte, packedTimelocksSize)
	binary.BigEndian.PutUint32(raw[0:4], t.DeployedAt)
	binary.BigEndian.PutUint32(raw[4:8], t.Withdrawal)
	binary.BigEndian.PutUint32(raw[8:12], t.PublicWithdrawal)
	binary.BigEndian.PutUint32(raw[12:16], t.Cancellation)
	binary.BigEndian.PutUint32(raw[16:20], t.PublicCancellation)
	return raw
}

// UnpackTimelocks is the exact reverse of Pack.
func UnpackTimelocks(raw []byte) (Timelocks, error) {
	if len(raw) != packedTimelocksSize {
		return Timelocks{}, errors.Wrapf(ErrInvalidTimelocks, "packed size %d", len(raw))
	}
	return Timelocks{
		DeployedAt:         binary.BigEndian.Uint32(raw[0:4]),
		Withdrawal:         binary.BigEndian.Uint32(raw[4:8]),
		PublicWithdrawal:   binary.BigEndian.Uint32(raw[8:12]),
		Cancellation:       binary.BigEndian.Uint32(raw[12:16]),
		PublicCancellation: binary.BigEndian.Uint32(raw[16:20]),
	}, nil
}
