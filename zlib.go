package cbor

import (
	"compress/zlib"
	"math"
)

// ZlibCompressor compresses an envelope payload with zlib.
type ZlibCompressor struct {
	// Level is the compression level. The zero value selects
	// ZlibDefaultCompression; ZlibNoCompression (0) cannot be
	// requested through this field.
	Level int
}

const (
	ZlibNoCompression      = zlib.NoCompression
	ZlibBestSpeed          = zlib.BestSpeed
	ZlibBestCompression    = zlib.BestCompression
	ZlibDefaultCompression = zlib.DefaultCompression
)

func (c ZlibCompressor) compress(buf []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = ZlibDefaultCompression
	}

	tail, err := zlibEncode(buf, level)
	if err != nil {
		return nil, err
	}

	// Prepend the compressed block with two lengths:
	//
	// <Varint><Varint><Zlib Blob>
	// 1st varint is the length of the uncompressed payload,
	// 2nd varint is the length of the compressed payload.
	var head []byte
	head = varint(head, uint(len(buf)))
	head = varint(head, uint(len(tail)))

	return append(head, tail...), nil
}

func (c ZlibCompressor) decompress(buf []byte) ([]byte, error) {
	// Read the claimed length of the uncompressed payload
	uln, usz, err := varintdecode(buf)
	if err != nil {
		return nil, err
	}
	buf = buf[usz:]

	// Read the claimed length of the compressed payload
	cln, csz, err := varintdecode(buf)
	if err != nil {
		return nil, err
	}
	if cln < 0 || cln > math.MaxInt32 || csz+cln > len(buf) {
		return nil, ErrCorrupt{errBadVarint}
	}

	// zlib cannot expand a stream past roughly 1032:1, so a larger
	// claimed size is corrupt and must not drive the allocation
	if uln < 0 || uln > math.MaxInt32 || uln/1032 > cln {
		return nil, ErrCorrupt{errBadVarint}
	}
	buf = buf[csz : csz+cln]

	return zlibDecode(uln, buf)
}
