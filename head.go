package cbor

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
)

// Every data item begins with a head: one initial byte packing the
// major type (top 3 bits) with an additional-information value (low
// 5 bits), followed by 0, 1, 2, 4 or 8 big-endian argument bytes.
// The encoder always picks the shortest form that can hold the
// argument; additional-information values 28..30 never appear on the
// wire, and 31 marks an indefinite-length item whose extent is
// delimited by a later break code.

// AppendHead appends the minimal head encoding of (m, arg) to dst and
// returns the extended slice.
func AppendHead(dst []byte, m MajorType, arg uint64) []byte {
	mt := byte(m) << 5
	switch {
	case arg <= maxDirectArg:
		return append(dst, mt|byte(arg))
	case arg <= 0xff:
		return append(dst, mt|addInfoUint8, byte(arg))
	case arg <= 0xffff:
		return append(dst, mt|addInfoUint16, byte(arg>>8), byte(arg))
	case arg <= 0xffffffff:
		return append(dst, mt|addInfoUint32,
			byte(arg>>24), byte(arg>>16), byte(arg>>8), byte(arg))
	default:
		return append(dst, mt|addInfoUint64,
			byte(arg>>56), byte(arg>>48), byte(arg>>40), byte(arg>>32),
			byte(arg>>24), byte(arg>>16), byte(arg>>8), byte(arg))
	}
}

// WriteHead writes the minimal head encoding of (m, arg) to w and
// returns the number of bytes written: 1, 2, 3, 5 or 9. A write fault
// from w propagates unchanged and leaves the stream position
// indeterminate.
func WriteHead(w io.Writer, m MajorType, arg uint64) (int, error) {
	var scratch [9]byte
	return w.Write(AppendHead(scratch[:0], m, arg))
}

var maxMagnitude = new(big.Int).SetUint64(math.MaxUint64)

// WriteHeadBig is WriteHead for magnitudes held in a big.Int. A
// negative magnitude fails with ErrNegativeMagnitude and a magnitude
// above 2^64-1 with ErrMagnitudeOverflow; neither writes anything.
func WriteHeadBig(w io.Writer, m MajorType, mag *big.Int) (int, error) {
	if mag.Sign() < 0 {
		return 0, ErrNegativeMagnitude{Magnitude: new(big.Int).Set(mag)}
	}
	if mag.Cmp(maxMagnitude) > 0 {
		return 0, ErrMagnitudeOverflow{Magnitude: new(big.Int).Set(mag)}
	}
	return WriteHead(w, m, mag.Uint64())
}

// DecodeHead splits an initial byte into its major type and
// additional-information value. It is total: every byte value maps to
// a major type 0..7 and an info value 0..31.
func DecodeHead(b byte) (MajorType, byte) {
	return MajorType(b>>5) & 0x07, b & 0x1f
}

// ReadArgument reads the argument announced by info from r. The bool
// result reports the indefinite-length sentinel (info 31), which
// consumes no bytes. The 8-byte form returns the unsigned
// interpretation of the bit pattern; values with the top bit set are
// not sign-extended, so the full [0, 2^64-1] range survives intact.
func ReadArgument(r io.Reader, info byte) (uint64, bool, error) {
	switch {
	case info <= maxDirectArg:
		return uint64(info), false, nil
	case info == addInfoUint8:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, false, err
		}
		return uint64(buf[0]), false, nil
	case info == addInfoUint16:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, false, err
		}
		return uint64(binary.BigEndian.Uint16(buf[:])), false, nil
	case info == addInfoUint32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, false, err
		}
		return uint64(binary.BigEndian.Uint32(buf[:])), false, nil
	case info == addInfoUint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, false, err
		}
		return binary.BigEndian.Uint64(buf[:]), false, nil
	case info == addInfoIndefinite:
		return 0, true, nil
	}
	return 0, false, ErrReservedAddInfo{Info: info}
}

// readArgBytes is the buffer-based twin of ReadArgument used by the
// value decoder. It additionally returns the number of bytes consumed.
func readArgBytes(b []byte, info byte) (arg uint64, indef bool, sz int, err error) {
	switch {
	case info <= maxDirectArg:
		return uint64(info), false, 0, nil
	case info == addInfoUint8:
		if len(b) < 1 {
			return 0, false, 0, ErrTruncated
		}
		return uint64(b[0]), false, 1, nil
	case info == addInfoUint16:
		if len(b) < 2 {
			return 0, false, 0, ErrTruncated
		}
		return uint64(binary.BigEndian.Uint16(b)), false, 2, nil
	case info == addInfoUint32:
		if len(b) < 4 {
			return 0, false, 0, ErrTruncated
		}
		return uint64(binary.BigEndian.Uint32(b)), false, 4, nil
	case info == addInfoUint64:
		if len(b) < 8 {
			return 0, false, 0, ErrTruncated
		}
		return binary.BigEndian.Uint64(b), false, 8, nil
	case info == addInfoIndefinite:
		return 0, true, 0, nil
	}
	return 0, false, 0, ErrReservedAddInfo{Info: info}
}
