package cbor

import "math"

// SnappyCompressor compresses an envelope payload with the Snappy
// block format.
type SnappyCompressor struct{}

func (c SnappyCompressor) compress(b []byte) ([]byte, error) {
	if len(b) >= math.MaxUint32 {
		return nil, ErrTooLarge
	}
	return snappyEncode(nil, b), nil
}

func (c SnappyCompressor) decompress(b []byte) ([]byte, error) {
	return snappyDecode(nil, b)
}
