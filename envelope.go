package cbor

import (
	"encoding/binary"

	"github.com/dchest/siphash"
)

// A Compressor compresses and decompresses envelope payloads.
type Compressor interface {
	compress(b []byte) ([]byte, error)
	decompress(b []byte) ([]byte, error)
}

// Fixed integrity key for the optional payload checksum. The trailer
// detects accidental corruption, it is not an authentication code.
const (
	siphashK0 = 0x7262633d00000001
	siphashK1 = 0x7262633d00000002
)

// An Envelope frames an encoded document with a magic number, an
// optional compression layer and an optional integrity trailer:
//
//	bytes 0-3: magic "=cbr"
//	byte  4:   document type (high nibble) and version (low nibble)
//	byte  5:   flags
//	payload:   compressor-specific framing
//	trailer:   8-byte little-endian SipHash-2-4 of the payload, if flagged
type Envelope struct {
	Compressor Compressor // nil leaves the payload raw
	Checksum   bool       // append the integrity trailer
}

// Pack wraps an encoded document body.
func (e *Envelope) Pack(body []byte) ([]byte, error) {
	doctype := documentTypeRaw
	payload := body
	var err error

	switch c := e.Compressor.(type) {
	case nil:
	case SnappyCompressor:
		doctype = documentTypeSnappy
		payload, err = c.compress(body)
	case ZlibCompressor:
		doctype = documentTypeZlib
		payload, err = c.compress(body)
	case ZstdCompressor:
		doctype = documentTypeZstd
		payload, err = c.compress(body)
	default:
		return nil, ErrDoctypeUnsupported
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerSize, headerSize+len(payload)+8)
	binary.LittleEndian.PutUint32(out[:4], magicHeaderBytes)
	out[4] = byte(doctype)<<4 | envelopeVersion
	if e.Checksum {
		out[5] |= flagSiphash
	}
	out = append(out, payload...)

	if e.Checksum {
		var sum [8]byte
		binary.LittleEndian.PutUint64(sum[:], siphash.Hash(siphashK0, siphashK1, payload))
		out = append(out, sum[:]...)
	}

	return out, nil
}

// Unpack verifies the framing and returns the document body. The
// compression layer is chosen by the document type byte, so any
// Envelope value can unpack any well-formed document.
func (e *Envelope) Unpack(doc []byte) ([]byte, error) {
	if len(doc) < headerSize {
		return nil, ErrTruncated
	}
	if binary.LittleEndian.Uint32(doc[:4]) != magicHeaderBytes {
		return nil, ErrBadMagic
	}

	doctype := documentType(doc[4] >> 4)
	version := doc[4] & 0x0f
	if version != envelopeVersion {
		return nil, ErrVersionUnsupported
	}
	flags := doc[5]

	payload := doc[headerSize:]
	if flags&flagSiphash != 0 {
		if len(payload) < 8 {
			return nil, ErrTruncated
		}
		sum := binary.LittleEndian.Uint64(payload[len(payload)-8:])
		payload = payload[:len(payload)-8]
		if siphash.Hash(siphashK0, siphashK1, payload) != sum {
			return nil, ErrBadChecksum
		}
	}

	switch doctype {
	case documentTypeRaw:
		return payload, nil
	case documentTypeSnappy:
		return SnappyCompressor{}.decompress(payload)
	case documentTypeZlib:
		return ZlibCompressor{}.decompress(payload)
	case documentTypeZstd:
		return ZstdCompressor{}.decompress(payload)
	}
	return nil, ErrDoctypeUnsupported
}

func varint(by []byte, n uint) []byte {
	for n >= 0x80 {
		by = append(by, byte(n)|0x80)
		n >>= 7
	}
	return append(by, byte(n))
}

func varintdecode(by []byte) (n int, sz int, err error) {
	s := uint(0) // shift count
	for i, b := range by {
		// a tenth byte would shift into (or past) the sign bit
		if s > 56 {
			return 0, i + 1, ErrCorrupt{errBadVarint}
		}

		n |= int(b&0x7f) << s
		s += 7

		if (b & 0x80) == 0 {
			return n, i + 1, nil
		}
	}

	// ran out of bytes before the final varint byte
	return 0, len(by), ErrCorrupt{errBadVarint}
}
