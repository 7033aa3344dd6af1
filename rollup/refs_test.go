package rollup

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestBlockRefIDs(t *testing.T) {
	l1 := L1BlockRef{
		Hash:       common.HexToHash("0x01"),
		Number:     100,
		ParentHash: common.HexToHash("0x02"),
		Time:       1000,
	}

	if got := l1.ID(); got != (BlockID{Hash: l1.Hash, Number: 100}) {
		t.Fatalf("unexpected l1 id: %s", got)
	}

	if got := l1.ParentID(); got != (BlockID{Hash: l1.ParentHash, Number: 99}) {
		t.Fatalf("unexpected l1 parent id: %s", got)
	}

	l2 := L2BlockRef{
		Hash:           common.HexToHash("0x03"),
		Number:         7,
		ParentHash:     common.HexToHash("0x04"),
		Time:           1012,
		L1Origin:       l1.ID(),
		SequenceNumber: 3,
	}

	if got := l2.ID(); got != (BlockID{Hash: l2.Hash, Number: 7}) {
		t.Fatalf("unexpected l2 id: %s", got)
	}

	if l2.L1Origin != l1.ID() {
		t.Fatalf("origin mismatch: %s vs %s", l2.L1Origin, l1.ID())
	}
}

func TestBlockRefEquality(t *testing.T) {
	a := L2BlockRef{Hash: common.HexToHash("0x0a"), Number: 1, L1Origin: BlockID{Number: 9}}
	b := L2BlockRef{Hash: common.HexToHash("0x0a"), Number: 1, L1Origin: BlockID{Number: 9}}

	if a != b {
		t.Fatalf("expected structural equality")
	}

	b.SequenceNumber = 1
	if a == b {
		t.Fatalf("expected inequality after field change")
	}
}

func TestParentIDGenesisBlock(t *testing.T) {
	ref := L1BlockRef{Hash: common.HexToHash("0x01"), Number: 0}

	if got := ref.ParentID().Number; got != 0 {
		t.Fatalf("genesis parent number: got %d want 0", got)
	}
}
