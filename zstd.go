package cbor

import "math"

// ZstdCompressor compresses an envelope payload with zstd.
type ZstdCompressor struct {
	Level int // compression level, ZstdDefaultCompression when zero
}

// Zstd constants
const (
	ZstdBestSpeed          = 1
	ZstdBestCompression    = 20
	ZstdDefaultCompression = 3
)

func (c ZstdCompressor) compress(buf []byte) ([]byte, error) {
	if c.Level == 0 {
		c.Level = ZstdDefaultCompression
	}

	tail, err := zstdEncode(buf, c.Level)
	if err != nil {
		return nil, err
	}

	// Prepend the compressed block with its length:
	//
	// <Varint><Zstd Blob>
	var head []byte
	head = varint(head, uint(len(tail)))

	return append(head, tail...), nil
}

func (c ZstdCompressor) decompress(buf []byte) ([]byte, error) {
	// Read the claimed length of the compressed payload
	ln, sz, err := varintdecode(buf)
	if err != nil {
		return nil, err
	}
	if ln < 0 || ln > math.MaxInt32 || sz+ln > len(buf) {
		return nil, ErrCorrupt{errBadVarint}
	}
	buf = buf[sz : sz+ln]

	return zstdDecode(nil, buf)
}
