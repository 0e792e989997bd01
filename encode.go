package cbor

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/x448/float16"
)

// RawMessage is an already-encoded data item. It is copied verbatim on
// encode and captured verbatim on decode.
type RawMessage []byte

var (
	bigIntType     = reflect.TypeOf(big.Int{})
	rawMessageType = reflect.TypeOf(RawMessage(nil))
)

func reflectValueOf(v interface{}) reflect.Value {
	rv, ok := v.(reflect.Value)
	if !ok {
		rv = reflect.ValueOf(v)
	}
	return rv
}

// An Encoder writes values in their definite-length form.
type Encoder struct {
	// CompactFloats re-encodes floating-point values in the
	// smallest width that preserves them exactly.
	CompactFloats bool

	tcache tagsCache
}

// Marshal returns the encoding of v using a default Encoder
func Marshal(v interface{}) ([]byte, error) {
	e := &Encoder{}
	return e.Marshal(v)
}

// Marshal returns the encoding of v
func (e *Encoder) Marshal(v interface{}) ([]byte, error) {
	b := make([]byte, 0, 32)
	return e.encode(b, reflectValueOf(v))
}

func (e *Encoder) encode(b []byte, rv reflect.Value) ([]byte, error) {
	if rv.IsValid() && rv.Type() == rawMessageType {
		return append(b, rv.Bytes()...), nil
	}

	switch rk := rv.Kind(); rk {

	case reflect.Invalid:
		b = AppendHead(b, MajorSimple, simpleNull)

	case reflect.Bool:
		if rv.Bool() {
			b = AppendHead(b, MajorSimple, simpleTrue)
		} else {
			b = AppendHead(b, MajorSimple, simpleFalse)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b = e.encodeInt(b, rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b = AppendHead(b, MajorUnsignedInt, rv.Uint())

	case reflect.Float32:
		b = e.encodeFloat32(b, float32(rv.Float()))

	case reflect.Float64:
		b = e.encodeFloat64(b, rv.Float())

	case reflect.String:
		s := rv.String()
		b = AppendHead(b, MajorTextString, uint64(len(s)))
		b = append(b, s...)

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data := rv.Bytes()
			b = AppendHead(b, MajorByteString, uint64(len(data)))
			b = append(b, data...)
			break
		}
		return e.encodeArray(b, rv)

	case reflect.Array:
		return e.encodeArray(b, rv)

	case reflect.Map:
		return e.encodeMap(b, rv)

	case reflect.Struct:
		if rv.Type() == bigIntType {
			bi := rv.Interface().(big.Int)
			return e.encodeBigInt(b, &bi)
		}
		return e.encodeStruct(b, rv)

	case reflect.Interface:
		if rv.IsNil() {
			b = AppendHead(b, MajorSimple, simpleNull)
			break
		}
		return e.encode(b, rv.Elem())

	case reflect.Ptr:
		if rv.IsNil() {
			b = AppendHead(b, MajorSimple, simpleNull)
			break
		}
		return e.encode(b, rv.Elem())

	default:
		return nil, fmt.Errorf("cbor: no support for type '%s'", rk.String())
	}

	return b, nil
}

func (e *Encoder) encodeInt(b []byte, n int64) []byte {
	if n >= 0 {
		return AppendHead(b, MajorUnsignedInt, uint64(n))
	}
	// major type 1 carries -1-n, so MinInt64 still fits
	return AppendHead(b, MajorNegativeInt, uint64(-1-n))
}

func (e *Encoder) encodeFloat32(b []byte, f float32) []byte {
	if e.CompactFloats {
		if f16 := float16.Fromfloat32(f); f16.Float32() == f {
			bits := uint16(f16)
			return append(b, byte(MajorSimple)<<5|simpleFloat16, byte(bits>>8), byte(bits))
		}
	}
	bits := math.Float32bits(f)
	return append(b, byte(MajorSimple)<<5|simpleFloat32,
		byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
}

func (e *Encoder) encodeFloat64(b []byte, f float64) []byte {
	if e.CompactFloats {
		if f32 := float32(f); float64(f32) == f {
			return e.encodeFloat32(b, f32)
		}
	}
	bits := math.Float64bits(f)
	return append(b, byte(MajorSimple)<<5|simpleFloat64,
		byte(bits>>56), byte(bits>>48), byte(bits>>40), byte(bits>>32),
		byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
}

// encodeBigInt picks major type 0/1 when the value fits the 64-bit
// argument and falls back to a tag 2/3 bignum otherwise.
func (e *Encoder) encodeBigInt(b []byte, bi *big.Int) ([]byte, error) {
	if bi.Sign() >= 0 {
		if bi.IsUint64() {
			return AppendHead(b, MajorUnsignedInt, bi.Uint64()), nil
		}
		b = AppendHead(b, MajorTag, tagPosBignum)
		data := bi.Bytes()
		b = AppendHead(b, MajorByteString, uint64(len(data)))
		return append(b, data...), nil
	}

	m := new(big.Int).Not(bi) // -1-bi, the major type 1 magnitude
	if m.IsUint64() {
		return AppendHead(b, MajorNegativeInt, m.Uint64()), nil
	}
	b = AppendHead(b, MajorTag, tagNegBignum)
	data := m.Bytes()
	b = AppendHead(b, MajorByteString, uint64(len(data)))
	return append(b, data...), nil
}

func (e *Encoder) encodeArray(b []byte, rv reflect.Value) ([]byte, error) {
	l := rv.Len()
	b = AppendHead(b, MajorArray, uint64(l))

	var err error
	for i := 0; i < l; i++ {
		if b, err = e.encode(b, rv.Index(i)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (e *Encoder) encodeMap(b []byte, rv reflect.Value) ([]byte, error) {
	keys := rv.MapKeys()
	b = AppendHead(b, MajorMap, uint64(len(keys)))

	var err error
	for _, k := range keys {
		if b, err = e.encode(b, k); err != nil {
			return nil, err
		}
		if b, err = e.encode(b, rv.MapIndex(k)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (e *Encoder) encodeStruct(b []byte, rv reflect.Value) ([]byte, error) {
	tags := e.tcache.Get(rv)

	type entry struct {
		name string
		v    reflect.Value
	}

	entries := make([]entry, 0, len(tags))
	for name, tg := range tags {
		fv := rv.Field(tg.id)
		if tg.omitEmpty && isEmptyValue(fv) {
			continue
		}
		entries = append(entries, entry{name, fv})
	}

	b = AppendHead(b, MajorMap, uint64(len(entries)))

	var err error
	for _, en := range entries {
		b = AppendHead(b, MajorTextString, uint64(len(en.name)))
		b = append(b, en.name...)
		if b, err = e.encode(b, en.v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
