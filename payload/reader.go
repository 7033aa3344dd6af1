package payload

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// reader is a sequential cursor over an immutable byte buffer. Every read is
// bounds-checked and fails with ErrTruncated when fewer bytes remain than
// requested. The returned slices alias the input buffer; callers copy where
// they keep data beyond the decode.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// complete reports whether the cursor has consumed the whole buffer.
func (r *reader) complete() bool {
	return r.off == len(r.buf)
}

func (r *reader) readFixed(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.off, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readHash() (common.Hash, error) {
	b, err := r.readFixed(common.HashLength)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(b), nil
}

func (r *reader) readAddress() (common.Address, error) {
	b, err := r.readFixed(common.AddressLength)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.readFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readUint256 decodes 32 little-endian bytes as an unsigned 256-bit integer.
func (r *reader) readUint256() (*uint256.Int, error) {
	b, err := r.readFixed(32)
	if err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	if err := v.UnmarshalSSZ(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return v, nil
}
