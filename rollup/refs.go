// Package rollup holds the chain-level value types and configuration of the
// rollup node: block references linking L2 blocks to their L1 origin, and the
// fork schedule that selects payload wire formats.
package rollup

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// BlockID identifies a block by hash and number. It is a comparable value
// type; two IDs are equal iff both fields are equal.
type BlockID struct {
	Hash   common.Hash
	Number uint64
}

func (id BlockID) String() string {
	return fmt.Sprintf("%s:%d", id.Hash.TerminalString(), id.Number)
}

// UnmarshalYAML decodes a BlockID from the config-file form
// {hash: 0x…, number: n}.
func (id *BlockID) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		Hash   string `yaml:"hash"`
		Number uint64 `yaml:"number"`
	}

	if err := value.Decode(&aux); err != nil {
		return err
	}

	if len(aux.Hash) != 2+2*common.HashLength || aux.Hash[:2] != "0x" {
		return fmt.Errorf("invalid block hash %q", aux.Hash)
	}

	id.Hash = common.HexToHash(aux.Hash)
	id.Number = aux.Number

	return nil
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (id BlockID) MarshalYAML() (interface{}, error) {
	return struct {
		Hash   string `yaml:"hash"`
		Number uint64 `yaml:"number"`
	}{Hash: id.Hash.Hex(), Number: id.Number}, nil
}

// L1BlockRef describes an L1 block: identity, parent link, and timestamp.
type L1BlockRef struct {
	Hash       common.Hash
	Number     uint64
	ParentHash common.Hash
	Time       uint64
}

// ID projects the reference onto a BlockID.
func (ref L1BlockRef) ID() BlockID {
	return BlockID{Hash: ref.Hash, Number: ref.Number}
}

// ParentID returns the ID of the parent block.
func (ref L1BlockRef) ParentID() BlockID {
	number := ref.Number
	if number > 0 {
		number--
	}

	return BlockID{Hash: ref.ParentHash, Number: number}
}

func (ref L1BlockRef) String() string {
	return fmt.Sprintf("%s:%d", ref.Hash.TerminalString(), ref.Number)
}

// L2BlockRef describes an L2 block together with its derivation position:
// the L1 origin block it was derived from and its sequence number within
// that origin's epoch.
type L2BlockRef struct {
	Hash           common.Hash
	Number         uint64
	ParentHash     common.Hash
	Time           uint64
	L1Origin       BlockID
	SequenceNumber uint64
}

// ID projects the reference onto a BlockID.
func (ref L2BlockRef) ID() BlockID {
	return BlockID{Hash: ref.Hash, Number: ref.Number}
}

// ParentID returns the ID of the parent block.
func (ref L2BlockRef) ParentID() BlockID {
	number := ref.Number
	if number > 0 {
		number--
	}

	return BlockID{Hash: ref.ParentHash, Number: number}
}

func (ref L2BlockRef) String() string {
	return fmt.Sprintf("%s:%d (origin %s, seq %d)", ref.Hash.TerminalString(), ref.Number, ref.L1Origin, ref.SequenceNumber)
}
