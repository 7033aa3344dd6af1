package payload

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ssz "github.com/ferranbt/fastssz"
)

// unmarshalTransactions decodes an SSZ list of variable-length byte strings
// using the offset-table-prefix convention: the first u32 offset points past
// the end of the table and therefore fixes the element count. Transactions
// are opaque typed-envelope RLP; they are sliced out, never parsed.
//
// Every declared offset must be covered by actual bytes. An element list
// that leaves the buffer partially consumed is rejected rather than padded
// with an empty final element.
func unmarshalTransactions(buf []byte) ([]hexutil.Bytes, error) {
	if len(buf) == 0 {
		return []hexutil.Bytes{}, nil
	}

	if len(buf) < 4 {
		return nil, fmt.Errorf("transactions offset table: %w", ErrTruncated)
	}

	r := newReader(buf)

	first, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	if first < 4 {
		return nil, fmt.Errorf("%w: first transaction offset %d points inside the offset table", ErrInvalidOffset, first)
	}

	if first%4 != 0 {
		return nil, fmt.Errorf("%w: first transaction offset %d is not a multiple of 4", ErrInvalidOffset, first)
	}

	if int(first) > len(buf) {
		return nil, fmt.Errorf("%w: first transaction offset %d exceeds buffer of %d bytes", ErrInvalidOffset, first, len(buf))
	}

	count := int(first / 4)
	if count > MaxTransactionsPerPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTransactions, count, MaxTransactionsPerPayload)
	}

	offsets := make([]uint32, 0, count+1)
	offsets = append(offsets, first)

	for i := 1; i < count; i++ {
		offset, err := r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("transaction offset %d: %w", i, err)
		}

		offsets = append(offsets, offset)
	}

	// Sentinel: the final element extends to the end of the buffer.
	offsets = append(offsets, uint32(len(buf)))

	for i := 0; i < count; i++ {
		if offsets[i+1] < offsets[i] {
			return nil, fmt.Errorf("%w: transaction offset %d decreases from %d to %d", ErrInvalidOffset, i+1, offsets[i], offsets[i+1])
		}

		if int(offsets[i+1]) > len(buf) {
			return nil, fmt.Errorf("%w: transaction offset %d exceeds buffer of %d bytes", ErrInvalidOffset, offsets[i+1], len(buf))
		}
	}

	transactions := make([]hexutil.Bytes, 0, count)

	for i := 0; i < count; i++ {
		data, err := r.readFixed(int(offsets[i+1] - offsets[i]))
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		tx := make(hexutil.Bytes, len(data))
		copy(tx, data)
		transactions = append(transactions, tx)
	}

	if !r.complete() {
		return nil, fmt.Errorf("%w: %d bytes after transaction list", ErrTrailingBytes, r.remaining())
	}

	return transactions, nil
}

// marshalTransactions is the encoding mirror of unmarshalTransactions.
func marshalTransactions(dst []byte, transactions []hexutil.Bytes) ([]byte, error) {
	if len(transactions) > MaxTransactionsPerPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTransactions, len(transactions), MaxTransactionsPerPayload)
	}

	offset := 4 * len(transactions)
	for _, tx := range transactions {
		dst = ssz.WriteOffset(dst, offset)
		offset += len(tx)
	}

	for _, tx := range transactions {
		dst = append(dst, tx...)
	}

	return dst, nil
}
