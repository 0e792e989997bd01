package cbor

// MajorType is the 3-bit type code carried in the top bits of every
// initial byte.
type MajorType byte

const (
	MajorUnsignedInt MajorType = 0
	MajorNegativeInt MajorType = 1
	MajorByteString  MajorType = 2
	MajorTextString  MajorType = 3
	MajorArray       MajorType = 4
	MajorMap         MajorType = 5
	MajorTag         MajorType = 6
	MajorSimple      MajorType = 7
)

func (m MajorType) String() string {
	switch m {
	case MajorUnsignedInt:
		return "unsigned integer"
	case MajorNegativeInt:
		return "negative integer"
	case MajorByteString:
		return "byte string"
	case MajorTextString:
		return "text string"
	case MajorArray:
		return "array"
	case MajorMap:
		return "map"
	case MajorTag:
		return "tag"
	case MajorSimple:
		return "simple"
	}
	return "invalid"
}

// Additional-information values (low 5 bits of the initial byte).
// 0..23 carry the argument directly; 24..27 announce 1/2/4/8 trailing
// big-endian bytes; 28..30 are reserved and malformed on the wire;
// 31 marks an indefinite-length item.
const (
	maxDirectArg      = 23
	addInfoUint8      = 24
	addInfoUint16     = 25
	addInfoUint32     = 26
	addInfoUint64     = 27
	addInfoIndefinite = 31
)

// breakCode terminates indefinite-length items.
const breakCode = 0xff

// Simple values (major type 7).
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
)

// Semantic tags understood by the value codec.
const (
	tagPosBignum = 2
	tagNegBignum = 3
)

// Envelope framing.
const magicHeaderBytes = uint32(0x7262633d) // "=cbr" little-endian

const headerSize = 6

const envelopeVersion = 1

type documentType byte

const (
	documentTypeRaw documentType = iota
	documentTypeSnappy
	documentTypeZlib
	documentTypeZstd
)

const flagSiphash = byte(1 << 0)
