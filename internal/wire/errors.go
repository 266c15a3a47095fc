package wire

import "errors"

var (
	// ErrFrameTooLarge is returned when a frame header claims a payload
	// larger than the configured maximum.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
	// ErrStringTooLong is returned when encoding a string longer than the
	// 16-bit length prefix can carry.
	ErrStringTooLong = errors.New("string exceeds 65535 bytes")
	// ErrCountTooLarge is returned when a decoded array count cannot fit in
	// the remaining payload.
	ErrCountTooLarge = errors.New("array count exceeds remaining payload")
)
