package blob

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

func patternData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}

	return data
}

func TestRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 26, 27, 28, 126, 127, 128, 4096, MaxDataSize - 1, MaxDataSize}

	for _, size := range sizes {
		data := patternData(size)

		var b Blob
		if err := b.FromData(data); err != nil {
			t.Fatalf("size %d: encode: %v", size, err)
		}

		decoded, err := b.ToData()
		if err != nil {
			t.Fatalf("size %d: decode: %v", size, err)
		}

		if !bytes.Equal(decoded, data) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestFromDataTooLarge(t *testing.T) {
	var b Blob
	if err := b.FromData(make([]byte, MaxDataSize+1)); !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestToDataInvalidVersion(t *testing.T) {
	var b Blob
	b[1] = 1

	if _, err := b.ToData(); !errors.Is(err, ErrInvalidEncodingVersion) {
		t.Fatalf("expected ErrInvalidEncodingVersion, got %v", err)
	}
}

func TestToDataLengthTooLarge(t *testing.T) {
	var b Blob
	b[2], b[3], b[4] = 0xff, 0xff, 0xff

	if _, err := b.ToData(); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestToDataInvalidFieldElement(t *testing.T) {
	var b Blob
	if err := b.FromData(patternData(1000)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	b[32] |= 0b1000_0000

	if _, err := b.ToData(); !errors.Is(err, ErrInvalidFieldElement) {
		t.Fatalf("expected ErrInvalidFieldElement, got %v", err)
	}
}

func TestToDataExtraneousData(t *testing.T) {
	t.Run("past declared length", func(t *testing.T) {
		var b Blob
		if err := b.FromData(patternData(1)); err != nil {
			t.Fatalf("encode: %v", err)
		}

		b[6] = 0xff // second data byte of the first field element, past length 1

		if _, err := b.ToData(); !errors.Is(err, ErrExtraneousData) {
			t.Fatalf("expected ErrExtraneousData, got %v", err)
		}
	})

	t.Run("past consumed region", func(t *testing.T) {
		var b Blob
		if err := b.FromData(patternData(1)); err != nil {
			t.Fatalf("encode: %v", err)
		}

		b[Size-1] = 1

		if _, err := b.ToData(); !errors.Is(err, ErrExtraneousData) {
			t.Fatalf("expected ErrExtraneousData, got %v", err)
		}
	})
}

func TestEmptyBlobDecodesEmpty(t *testing.T) {
	var b Blob

	data, err := b.ToData()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(data) != 0 {
		t.Fatalf("expected no data from a zero blob, got %d bytes", len(data))
	}
}

func TestVersionedHash(t *testing.T) {
	var commitment kzg4844.Commitment
	for i := range commitment {
		commitment[i] = byte(i)
	}

	want := sha256.Sum256(commitment[:])
	want[0] = 0x01

	if got := VersionedHash(commitment); got != common.Hash(want) {
		t.Fatalf("versioned hash: got %s want %x", got, want)
	}
}
