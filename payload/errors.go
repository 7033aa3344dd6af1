package payload

import "errors"

// Codec errors. Every malformed input maps to exactly one of these, wrapped
// with positional context. All are non-retryable: they indicate a payload
// that does not conform to the wire format, never a transient condition.
var (
	// ErrTruncated is returned when the buffer ends before a required read.
	ErrTruncated = errors.New("unexpected end of payload data")

	// ErrUnexpectedOffset is returned when a declared offset disagrees with
	// the position it must equal, or violates field ordering.
	ErrUnexpectedOffset = errors.New("unexpected field offset")

	// ErrInvalidOffset is returned when an offset is unaligned or points
	// outside its buffer.
	ErrInvalidOffset = errors.New("invalid field offset")

	// ErrExtraDataTooLarge is returned when extra_data exceeds 32 bytes.
	ErrExtraDataTooLarge = errors.New("extra data too large")

	// ErrTooManyTransactions is returned when the transaction count exceeds
	// MaxTransactionsPerPayload.
	ErrTooManyTransactions = errors.New("too many transactions")

	// ErrTooManyWithdrawals is returned when the withdrawal count exceeds
	// MaxWithdrawalsPerPayload.
	ErrTooManyWithdrawals = errors.New("too many withdrawals")

	// ErrInvalidLength is returned when a fixed-stride list buffer is not a
	// whole number of records.
	ErrInvalidLength = errors.New("invalid list length")

	// ErrTrailingBytes is returned when input remains after a complete decode.
	ErrTrailingBytes = errors.New("trailing bytes after payload")

	// ErrUnknownVersion is returned for a PayloadVersion this codec does not
	// understand.
	ErrUnknownVersion = errors.New("unknown payload version")
)
