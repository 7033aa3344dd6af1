// Package blob implements the rollup data encoding used inside EIP-4844
// blobs. A blob packs data into 4096 field elements of 32 bytes; since field
// elements are not full bytes wide, each one carries 31 whole bytes plus a
// 6-bit chunk in its first byte, and four chunks reassemble into three data
// bytes per round.
package blob

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

const (
	// Size is the fixed byte size of an EIP-4844 blob.
	Size = 4096 * 32

	// MaxDataSize is the number of data bytes one blob can carry: 1024
	// rounds of four field elements, 127 bytes per round, minus the 4-byte
	// version/length header in the first field element.
	MaxDataSize = (4*31+3)*1024 - 4

	// EncodingVersion is the only data encoding currently defined.
	EncodingVersion = 0

	versionOffset = 1
	rounds        = 1024
)

var (
	// ErrInputTooLarge is returned when the input exceeds MaxDataSize.
	ErrInputTooLarge = errors.New("too much data to encode in one blob")

	// ErrInvalidEncodingVersion is returned when the blob declares an
	// encoding this implementation does not understand.
	ErrInvalidEncodingVersion = errors.New("invalid blob encoding version")

	// ErrInvalidLength is returned when the declared data length cannot fit
	// in a blob.
	ErrInvalidLength = errors.New("invalid blob data length")

	// ErrInvalidFieldElement is returned when a field element has either of
	// the two high bits of its first byte set.
	ErrInvalidFieldElement = errors.New("invalid field element")

	// ErrExtraneousData is returned when bytes beyond the declared data
	// length are non-zero.
	ErrExtraneousData = errors.New("extraneous data in blob")
)

// Blob is a raw EIP-4844 blob.
type Blob [Size]byte

// Clear zeroes the blob.
func (b *Blob) Clear() {
	*b = Blob{}
}

// FromData encodes data into the blob. The inverse of ToData.
func (b *Blob) FromData(data []byte) error {
	if len(data) > MaxDataSize {
		return fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	b.Clear()

	readOffset := 0
	read1 := func() byte {
		if readOffset >= len(data) {
			return 0
		}

		out := data[readOffset]
		readOffset++

		return out
	}

	writeOffset := 0
	var buf31 [31]byte

	write1 := func(v byte) {
		b[writeOffset] = v
		writeOffset++
	}

	write31 := func() {
		copy(b[writeOffset:], buf31[:])
		writeOffset += 31
	}

	read31 := func() {
		for i := range buf31 {
			buf31[i] = read1()
		}
	}

	for round := 0; round < rounds && readOffset < len(data); round++ {
		if round == 0 {
			// The first field element carries the version and a u24
			// big-endian data length ahead of the first 27 data bytes.
			buf31[0] = EncodingVersion
			ilen := uint32(len(data))
			buf31[1] = byte(ilen >> 16)
			buf31[2] = byte(ilen >> 8)
			buf31[3] = byte(ilen)
			readOffset = copy(buf31[4:], data)
		} else {
			read31()
		}

		x := read1()
		write1(x & 0b0011_1111)
		write31()

		read31()
		y := read1()
		write1((y & 0b0000_1111) | ((x & 0b1100_0000) >> 2))
		write31()

		read31()
		z := read1()
		write1(z & 0b0011_1111)
		write31()

		read31()
		write1(((z & 0b1100_0000) >> 2) | ((y & 0b1111_0000) >> 4))
		write31()
	}

	return nil
}

// ToData decodes the data payload of the blob. Strict: the version must
// match, the declared length must fit, every field element must be canonical,
// and all bytes beyond the declared length must be zero.
func (b *Blob) ToData() ([]byte, error) {
	if b[versionOffset] != EncodingVersion {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidEncodingVersion, EncodingVersion, b[versionOffset])
	}

	outputLen := uint32(b[2])<<16 | uint32(b[3])<<8 | uint32(b[4])
	if outputLen > MaxDataSize {
		return nil, fmt.Errorf("%w: %d bytes declared", ErrInvalidLength, outputLen)
	}

	output := make([]byte, MaxDataSize)

	// Round 0: the first field element holds the header plus 27 data bytes.
	if b[0]&0b1100_0000 != 0 {
		return nil, fmt.Errorf("%w: blob offset 0", ErrInvalidFieldElement)
	}

	copy(output[0:27], b[5:])

	opos := 28
	ipos := 32

	var encodedByte [4]byte
	encodedByte[0] = b[0]

	var err error
	for i := 1; i < 4; i++ {
		if encodedByte[i], opos, ipos, err = b.decodeFieldElement(opos, ipos, output); err != nil {
			return nil, err
		}
	}

	opos = reassembleBytes(opos, &encodedByte, output)

	// Remaining rounds decode 128 blob bytes into 127 data bytes each.
	for round := 1; round < rounds && opos < int(outputLen); round++ {
		for j := 0; j < 4; j++ {
			if encodedByte[j], opos, ipos, err = b.decodeFieldElement(opos, ipos, output); err != nil {
				return nil, err
			}
		}

		opos = reassembleBytes(opos, &encodedByte, output)
	}

	for i := int(outputLen); i < len(output); i++ {
		if output[i] != 0 {
			return nil, fmt.Errorf("%w: non-zero output byte %d past declared length %d", ErrExtraneousData, i, outputLen)
		}
	}

	output = output[:outputLen]

	for ; ipos < Size; ipos++ {
		if b[ipos] != 0 {
			return nil, fmt.Errorf("%w: non-zero blob byte %d past consumed region", ErrExtraneousData, ipos)
		}
	}

	return output, nil
}

func (b *Blob) decodeFieldElement(opos, ipos int, output []byte) (byte, int, int, error) {
	// Two highest order bits of the first byte of every field element must
	// be zero or the element exceeds the scalar field modulus.
	if b[ipos]&0b1100_0000 != 0 {
		return 0, 0, 0, fmt.Errorf("%w: blob offset %d", ErrInvalidFieldElement, ipos)
	}

	copy(output[opos:], b[ipos+1:ipos+32])

	return b[ipos], opos + 32, ipos + 32, nil
}

// reassembleBytes combines the four 6-bit chunks of a round back into the
// three data bytes interleaved between the field elements' 31-byte runs.
func reassembleBytes(opos int, encodedByte *[4]byte, output []byte) int {
	opos-- // the round writes 127 bytes, not 128

	x := (encodedByte[0] & 0b0011_1111) | ((encodedByte[1] & 0b0011_0000) << 2)
	y := (encodedByte[1] & 0b0000_1111) | ((encodedByte[3] & 0b0000_1111) << 4)
	z := (encodedByte[2] & 0b0011_1111) | ((encodedByte[3] & 0b0011_0000) << 2)

	output[opos-32] = z
	output[opos-32*2] = y
	output[opos-32*3] = x

	return opos
}

// VersionedHash computes the EIP-4844 versioned hash of a KZG commitment.
func VersionedHash(commitment kzg4844.Commitment) common.Hash {
	vh := kzg4844.CalcBlobHashV1(sha256.New(), &commitment)
	return common.BytesToHash(vh[:])
}
