package payload

import (
	"fmt"

	ssz "github.com/ferranbt/fastssz"
)

// withdrawalSize is the fixed wire stride of a single withdrawal record:
// index(8) | validator_index(8) | address(20) | amount(8).
const withdrawalSize = 44

// unmarshalWithdrawals decodes a fixed-stride withdrawal list. The buffer
// must be a whole number of 44-byte records and carry at most
// MaxWithdrawalsPerPayload of them. Input order is preserved.
func unmarshalWithdrawals(buf []byte) ([]*Withdrawal, error) {
	if len(buf)%withdrawalSize != 0 {
		return nil, fmt.Errorf("%w: withdrawals buffer of %d bytes is not a multiple of %d", ErrInvalidLength, len(buf), withdrawalSize)
	}

	count := len(buf) / withdrawalSize
	if count > MaxWithdrawalsPerPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyWithdrawals, count, MaxWithdrawalsPerPayload)
	}

	r := newReader(buf)
	withdrawals := make([]*Withdrawal, 0, count)

	for i := 0; i < count; i++ {
		w := &Withdrawal{}

		var err error
		if w.Index, err = r.readUint64(); err != nil {
			return nil, fmt.Errorf("withdrawal %d index: %w", i, err)
		}

		if w.ValidatorIndex, err = r.readUint64(); err != nil {
			return nil, fmt.Errorf("withdrawal %d validator index: %w", i, err)
		}

		if w.Address, err = r.readAddress(); err != nil {
			return nil, fmt.Errorf("withdrawal %d address: %w", i, err)
		}

		if w.Amount, err = r.readUint64(); err != nil {
			return nil, fmt.Errorf("withdrawal %d amount: %w", i, err)
		}

		withdrawals = append(withdrawals, w)
	}

	return withdrawals, nil
}

// marshalWithdrawals is the encoding mirror of unmarshalWithdrawals.
func marshalWithdrawals(dst []byte, withdrawals []*Withdrawal) ([]byte, error) {
	if len(withdrawals) > MaxWithdrawalsPerPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyWithdrawals, len(withdrawals), MaxWithdrawalsPerPayload)
	}

	for _, w := range withdrawals {
		dst = ssz.MarshalUint64(dst, w.Index)
		dst = ssz.MarshalUint64(dst, w.ValidatorIndex)
		dst = append(dst, w.Address.Bytes()...)
		dst = ssz.MarshalUint64(dst, w.Amount)
	}

	return dst, nil
}
