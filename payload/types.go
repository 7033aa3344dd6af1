package payload

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// PayloadVersion selects the wire layout of an execution payload. The payload
// itself is not self-describing: the caller derives the version from the fork
// schedule for the block's timestamp. New forks add new constants; existing
// constants never change meaning.
type PayloadVersion uint8

const (
	// PayloadV0 is the pre-withdrawals layout (Bellatrix-style).
	PayloadV0 PayloadVersion = iota
	// PayloadV1 adds the trailing withdrawals list (Capella-style).
	PayloadV1
)

func (v PayloadVersion) String() string {
	switch v {
	case PayloadV0:
		return "v0"
	case PayloadV1:
		return "v1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// Protocol limits on the variable-length payload fields.
const (
	// MaxExtraDataSize bounds the extra_data field.
	MaxExtraDataSize = 32
	// MaxTransactionsPerPayload bounds the transaction list.
	MaxTransactionsPerPayload = 1 << 20
	// MaxWithdrawalsPerPayload bounds the withdrawals list.
	MaxWithdrawalsPerPayload = 16
)

// Withdrawal is a consensus-layer withdrawal record as it appears in a
// Capella-style payload. On the wire it occupies a fixed 44-byte stride.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex uint64
	Address        common.Address
	Amount         uint64
}

// ExecutionPayload is the decoded L2 block body in engine-API form. Values
// are never mutated after decoding; Withdrawals is nil for a PayloadV0
// payload and non-nil (possibly empty) for PayloadV1.
type ExecutionPayload struct {
	ParentHash    common.Hash
	FeeRecipient  common.Address
	StateRoot     common.Hash
	ReceiptsRoot  common.Hash
	LogsBloom     types.Bloom
	PrevRandao    common.Hash
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     hexutil.Bytes
	BaseFeePerGas *uint256.Int
	BlockHash     common.Hash
	Transactions  []hexutil.Bytes
	Withdrawals   []*Withdrawal
}
