package payload

import (
	"fmt"

	ssz "github.com/ferranbt/fastssz"
	"github.com/holiman/uint256"
)

// Fixed-part sizes of the SSZ container. Variable-length fields (extra_data,
// transactions, withdrawals) are referenced by u32 offsets packed into the
// fixed part in field order.
const (
	// parent_hash(32) + fee_recipient(20) + state_root(32) + receipts_root(32) +
	// logs_bloom(256) + prev_randao(32) + 4 u64 quantities(32) +
	// extra_data_offset(4) + base_fee_per_gas(32) + block_hash(32) +
	// transactions_offset(4).
	fixedPartV0 = 508
	// V0 plus withdrawals_offset(4).
	fixedPartV1 = 512
)

func fixedPartSize(version PayloadVersion) (int, error) {
	switch version {
	case PayloadV0:
		return fixedPartV0, nil
	case PayloadV1:
		return fixedPartV1, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownVersion, version)
	}
}

// Unmarshal decodes an SSZ-encoded execution payload with the layout selected
// by version. The decode is strict and single-pass: every declared offset is
// checked against the position it must take, overlapping or gapped layouts
// are rejected, and the entire input must be consumed. On any violation a
// typed codec error is returned and no partial payload escapes.
func Unmarshal(data []byte, version PayloadVersion) (*ExecutionPayload, error) {
	fixedPart, err := fixedPartSize(version)
	if err != nil {
		return nil, err
	}

	if len(data) < fixedPart {
		return nil, fmt.Errorf("%w: payload of %d bytes is shorter than the %d byte fixed part", ErrTruncated, len(data), fixedPart)
	}

	r := newReader(data)
	p := &ExecutionPayload{}

	if p.ParentHash, err = r.readHash(); err != nil {
		return nil, fmt.Errorf("parent hash: %w", err)
	}

	if p.FeeRecipient, err = r.readAddress(); err != nil {
		return nil, fmt.Errorf("fee recipient: %w", err)
	}

	if p.StateRoot, err = r.readHash(); err != nil {
		return nil, fmt.Errorf("state root: %w", err)
	}

	if p.ReceiptsRoot, err = r.readHash(); err != nil {
		return nil, fmt.Errorf("receipts root: %w", err)
	}

	bloom, err := r.readFixed(len(p.LogsBloom))
	if err != nil {
		return nil, fmt.Errorf("logs bloom: %w", err)
	}

	copy(p.LogsBloom[:], bloom)

	if p.PrevRandao, err = r.readHash(); err != nil {
		return nil, fmt.Errorf("prev randao: %w", err)
	}

	if p.BlockNumber, err = r.readUint64(); err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}

	if p.GasLimit, err = r.readUint64(); err != nil {
		return nil, fmt.Errorf("gas limit: %w", err)
	}

	if p.GasUsed, err = r.readUint64(); err != nil {
		return nil, fmt.Errorf("gas used: %w", err)
	}

	if p.Timestamp, err = r.readUint64(); err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}

	extraDataOffset, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("extra data offset: %w", err)
	}

	// The first variable-length field starts right after the fixed part.
	if extraDataOffset != uint32(fixedPart) {
		return nil, fmt.Errorf("%w: extra data offset %d, expected %d", ErrUnexpectedOffset, extraDataOffset, fixedPart)
	}

	if p.BaseFeePerGas, err = r.readUint256(); err != nil {
		return nil, fmt.Errorf("base fee per gas: %w", err)
	}

	if p.BlockHash, err = r.readHash(); err != nil {
		return nil, fmt.Errorf("block hash: %w", err)
	}

	transactionsOffset, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("transactions offset: %w", err)
	}

	if transactionsOffset < extraDataOffset {
		return nil, fmt.Errorf("%w: transactions offset %d before extra data offset %d", ErrUnexpectedOffset, transactionsOffset, extraDataOffset)
	}

	if int(transactionsOffset) > len(data) {
		return nil, fmt.Errorf("%w: transactions offset %d exceeds payload of %d bytes", ErrInvalidOffset, transactionsOffset, len(data))
	}

	if transactionsOffset-extraDataOffset > MaxExtraDataSize {
		return nil, fmt.Errorf("%w: %d bytes, max is %d", ErrExtraDataTooLarge, transactionsOffset-extraDataOffset, MaxExtraDataSize)
	}

	withdrawalsOffset := uint32(len(data))

	if version == PayloadV1 {
		withdrawalsOffset, err = r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("withdrawals offset: %w", err)
		}

		if withdrawalsOffset < transactionsOffset {
			return nil, fmt.Errorf("%w: withdrawals offset %d before transactions offset %d", ErrUnexpectedOffset, withdrawalsOffset, transactionsOffset)
		}

		if int(withdrawalsOffset) > len(data) {
			return nil, fmt.Errorf("%w: withdrawals offset %d exceeds payload of %d bytes", ErrInvalidOffset, withdrawalsOffset, len(data))
		}
	}

	if r.off != fixedPart {
		return nil, fmt.Errorf("%w: fixed part ends at %d, expected %d", ErrUnexpectedOffset, r.off, fixedPart)
	}

	extraData, err := r.readFixed(int(transactionsOffset - extraDataOffset))
	if err != nil {
		return nil, fmt.Errorf("extra data: %w", err)
	}

	p.ExtraData = make([]byte, len(extraData))
	copy(p.ExtraData, extraData)

	transactionsBuf, err := r.readFixed(int(withdrawalsOffset - transactionsOffset))
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	if p.Transactions, err = unmarshalTransactions(transactionsBuf); err != nil {
		return nil, err
	}

	if version == PayloadV1 {
		withdrawalsBuf, err := r.readFixed(len(data) - int(withdrawalsOffset))
		if err != nil {
			return nil, fmt.Errorf("withdrawals: %w", err)
		}

		if p.Withdrawals, err = unmarshalWithdrawals(withdrawalsBuf); err != nil {
			return nil, err
		}
	}

	if !r.complete() {
		return nil, fmt.Errorf("%w: %d bytes after payload", ErrTrailingBytes, r.remaining())
	}

	return p, nil
}

// Marshal encodes a payload into the wire layout selected by version. It is
// the exact mirror of Unmarshal: anything Marshal produces decodes back to an
// equal payload, and anything violating the field limits is refused.
func Marshal(p *ExecutionPayload, version PayloadVersion) ([]byte, error) {
	fixedPart, err := fixedPartSize(version)
	if err != nil {
		return nil, err
	}

	if version == PayloadV0 && p.Withdrawals != nil {
		return nil, fmt.Errorf("%w: withdrawals are not representable in a %s payload", ErrUnknownVersion, version)
	}

	if len(p.ExtraData) > MaxExtraDataSize {
		return nil, fmt.Errorf("%w: %d bytes, max is %d", ErrExtraDataTooLarge, len(p.ExtraData), MaxExtraDataSize)
	}

	transactions, err := marshalTransactions(nil, p.Transactions)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, 0, fixedPart+len(p.ExtraData)+len(transactions)+len(p.Withdrawals)*withdrawalSize)

	dst = append(dst, p.ParentHash.Bytes()...)
	dst = append(dst, p.FeeRecipient.Bytes()...)
	dst = append(dst, p.StateRoot.Bytes()...)
	dst = append(dst, p.ReceiptsRoot.Bytes()...)
	dst = append(dst, p.LogsBloom.Bytes()...)
	dst = append(dst, p.PrevRandao.Bytes()...)
	dst = ssz.MarshalUint64(dst, p.BlockNumber)
	dst = ssz.MarshalUint64(dst, p.GasLimit)
	dst = ssz.MarshalUint64(dst, p.GasUsed)
	dst = ssz.MarshalUint64(dst, p.Timestamp)

	extraDataOffset := fixedPart
	dst = ssz.WriteOffset(dst, extraDataOffset)

	baseFee := p.BaseFeePerGas
	if baseFee == nil {
		baseFee = uint256.NewInt(0)
	}

	var baseFeeBuf [32]byte
	baseFee.MarshalSSZInto(baseFeeBuf[:])
	dst = append(dst, baseFeeBuf[:]...)

	dst = append(dst, p.BlockHash.Bytes()...)

	transactionsOffset := extraDataOffset + len(p.ExtraData)
	dst = ssz.WriteOffset(dst, transactionsOffset)

	if version == PayloadV1 {
		dst = ssz.WriteOffset(dst, transactionsOffset+len(transactions))
	}

	dst = append(dst, p.ExtraData...)
	dst = append(dst, transactions...)

	if version == PayloadV1 {
		if dst, err = marshalWithdrawals(dst, p.Withdrawals); err != nil {
			return nil, err
		}
	}

	return dst, nil
}
