package cbor

import (
	"errors"
	"math/big"
	"strconv"
)

// Errors
var (
	ErrBadMagic           = errors.New("bad header: not a valid enveloped document")
	ErrVersionUnsupported = errors.New("unsupported envelope version")
	ErrDoctypeUnsupported = errors.New("unsupported envelope document type")
	ErrBadChecksum        = errors.New("envelope checksum mismatch")

	ErrDecodePointer = errors.New("expected pointer for decode target")

	ErrTruncated = errors.New("truncated document")

	ErrTooLarge = errors.New("cbor: document too large to be compressed with snappy")
)

// ErrCorrupt is returned if the document was corrupt
type ErrCorrupt struct{ Err string }

// internal constants used for corrupt
var (
	errBadStringSize    = "bad size for string"
	errBadArraySize     = "bad size for array"
	errBadMapSize       = "bad size for map"
	errBadChunk         = "bad indefinite-length chunk"
	errBadVarint        = "bad varint"
	errIndefiniteScalar = "indefinite length on scalar type"
	errUnexpectedBreak  = "unexpected break code"
	errUnknownSimple    = "unknown simple value"
	errBignumNotBytes   = "bignum tag content not a byte string"
)

func (c ErrCorrupt) Error() string { return "cbor: corrupt document: " + c.Err }

// ErrNegativeMagnitude is returned by the head encoder when the
// supplied magnitude is below zero. Nothing is written.
type ErrNegativeMagnitude struct{ Magnitude *big.Int }

func (e ErrNegativeMagnitude) Error() string {
	return "cbor: negative magnitude " + e.Magnitude.String()
}

// ErrMagnitudeOverflow is returned by the head encoder when the
// supplied magnitude exceeds 2^64-1 and cannot be represented in the
// fixed 8-byte argument field. Nothing is written.
type ErrMagnitudeOverflow struct{ Magnitude *big.Int }

func (e ErrMagnitudeOverflow) Error() string {
	return "cbor: magnitude " + e.Magnitude.String() + " does not fit in 64 bits"
}

// ErrReservedAddInfo is returned when a stream carries one of the
// reserved additional-information values 28, 29 or 30.
type ErrReservedAddInfo struct{ Info byte }

func (e ErrReservedAddInfo) Error() string {
	return "cbor: reserved additional information value " + strconv.Itoa(int(e.Info))
}
