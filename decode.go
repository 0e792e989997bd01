package cbor

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/x448/float16"
)

// A Decoder reads values back out of encoded buffers. It accepts both
// definite and indefinite-length containers.
type Decoder struct {
	tcache tagsCache
}

// Unmarshal parses the encoded buffer b and stores the result in the
// value pointed to by v using a default Decoder
func Unmarshal(b []byte, v interface{}) error {
	d := &Decoder{}
	return d.Unmarshal(b, v)
}

// Unmarshal parses the encoded buffer b and stores the result in the
// value pointed to by v
func (d *Decoder) Unmarshal(b []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrDecodePointer
	}
	_, err := d.decode(b, 0, rv.Elem())
	return err
}

func (d *Decoder) decode(b []byte, idx int, ptr reflect.Value) (int, error) {
	if idx >= len(b) {
		return 0, ErrTruncated
	}

	if ptr.Type() == rawMessageType {
		end, err := d.skipValue(b, idx)
		if err != nil {
			return 0, err
		}
		raw := make(RawMessage, end-idx)
		copy(raw, b[idx:end])
		ptr.Set(reflect.ValueOf(raw))
		return end, nil
	}

	// null and undefined zero the target whatever its shape
	if b[idx] == 0xf6 || b[idx] == 0xf7 {
		return idx + 1, setNil(ptr)
	}

	if ptr.Kind() == reflect.Ptr {
		if ptr.IsNil() {
			ptr.Set(reflect.New(ptr.Type().Elem()))
		}
		return d.decode(b, idx, ptr.Elem())
	}

	major, info := DecodeHead(b[idx])
	idx++

	arg, indef, sz, err := readArgBytes(b[idx:], info)
	if err != nil {
		return 0, err
	}
	idx += sz

	switch major {

	case MajorUnsignedInt:
		if indef {
			return 0, ErrCorrupt{errIndefiniteScalar}
		}
		// above MaxInt64 the value only fits an unsigned target
		if arg > math.MaxInt64 {
			return idx, setUint(ptr, arg)
		}
		return idx, setInt(ptr, int64(arg))

	case MajorNegativeInt:
		if indef {
			return 0, ErrCorrupt{errIndefiniteScalar}
		}
		if arg > math.MaxInt64 {
			// -1-arg falls below MinInt64
			bi := new(big.Int).SetUint64(arg)
			bi.Not(bi)
			return idx, setBig(ptr, bi)
		}
		return idx, setInt(ptr, -1-int64(arg))

	case MajorByteString:
		data, end, err := d.stringBody(b, idx, arg, indef, MajorByteString)
		if err != nil {
			return 0, err
		}
		return end, setBytes(ptr, data)

	case MajorTextString:
		data, end, err := d.stringBody(b, idx, arg, indef, MajorTextString)
		if err != nil {
			return 0, err
		}
		return end, setString(ptr, string(data))

	case MajorArray:
		return d.decodeArray(b, idx, arg, indef, ptr)

	case MajorMap:
		return d.decodeMap(b, idx, arg, indef, ptr)

	case MajorTag:
		if indef {
			return 0, ErrCorrupt{errIndefiniteScalar}
		}
		switch arg {
		case tagPosBignum, tagNegBignum:
			return d.decodeBignum(b, idx, arg == tagNegBignum, ptr)
		}
		// unknown tags are transparent
		return d.decode(b, idx, ptr)

	case MajorSimple:
		if indef {
			return 0, ErrCorrupt{errUnexpectedBreak}
		}
		switch info {
		case simpleFloat16:
			return idx, setFloat(ptr, reflect.Float32, float64(float16.Frombits(uint16(arg)).Float32()))
		case simpleFloat32:
			return idx, setFloat(ptr, reflect.Float32, float64(math.Float32frombits(uint32(arg))))
		case simpleFloat64:
			return idx, setFloat(ptr, reflect.Float64, math.Float64frombits(arg))
		}
		switch arg {
		case simpleFalse:
			return idx, setBool(ptr, false)
		case simpleTrue:
			return idx, setBool(ptr, true)
		}
		return 0, ErrCorrupt{errUnknownSimple}
	}

	// unreachable: DecodeHead is total over 0..7
	return 0, ErrCorrupt{errUnknownSimple}
}

// stringBody collects the payload of a byte or text string, splicing
// the chunks of an indefinite-length one. The returned slice aliases b
// in the definite case.
func (d *Decoder) stringBody(b []byte, idx int, arg uint64, indef bool, want MajorType) ([]byte, int, error) {
	if !indef {
		if arg > uint64(len(b)-idx) {
			return nil, 0, ErrCorrupt{errBadStringSize}
		}
		end := idx + int(arg)
		return b[idx:end], end, nil
	}

	var out []byte
	for {
		if idx >= len(b) {
			return nil, 0, ErrTruncated
		}
		if b[idx] == breakCode {
			return out, idx + 1, nil
		}
		cm, ci := DecodeHead(b[idx])
		idx++
		if cm != want {
			return nil, 0, ErrCorrupt{errBadChunk}
		}
		carg, cindef, sz, err := readArgBytes(b[idx:], ci)
		if err != nil {
			return nil, 0, err
		}
		if cindef {
			// chunks must themselves be definite
			return nil, 0, ErrCorrupt{errBadChunk}
		}
		idx += sz
		if carg > uint64(len(b)-idx) {
			return nil, 0, ErrCorrupt{errBadStringSize}
		}
		out = append(out, b[idx:idx+int(carg)]...)
		idx += int(carg)
	}
}

func (d *Decoder) decodeArray(b []byte, idx int, arg uint64, indef bool, ptr reflect.Value) (int, error) {
	if !indef && arg > uint64(len(b)-idx) {
		return 0, ErrCorrupt{errBadArraySize}
	}

	switch ptr.Kind() {

	case reflect.Interface:
		var out []interface{}
		if !indef {
			out = make([]interface{}, 0, int(arg))
		}
		for n := uint64(0); ; n++ {
			if indef {
				if idx >= len(b) {
					return 0, ErrTruncated
				}
				if b[idx] == breakCode {
					idx++
					break
				}
			} else if n == arg {
				break
			}
			var el interface{}
			var err error
			idx, err = d.decode(b, idx, reflect.ValueOf(&el).Elem())
			if err != nil {
				return 0, err
			}
			out = append(out, el)
		}
		if out == nil {
			out = []interface{}{}
		}
		ptr.Set(reflect.ValueOf(out))
		return idx, nil

	case reflect.Slice:
		sl := reflect.MakeSlice(ptr.Type(), 0, 0)
		if !indef {
			sl = reflect.MakeSlice(ptr.Type(), 0, int(arg))
		}
		for n := uint64(0); ; n++ {
			if indef {
				if idx >= len(b) {
					return 0, ErrTruncated
				}
				if b[idx] == breakCode {
					idx++
					break
				}
			} else if n == arg {
				break
			}
			el := reflect.New(ptr.Type().Elem()).Elem()
			var err error
			idx, err = d.decode(b, idx, el)
			if err != nil {
				return 0, err
			}
			sl = reflect.Append(sl, el)
		}
		ptr.Set(sl)
		return idx, nil

	case reflect.Array:
		i := 0
		for n := uint64(0); ; n++ {
			if indef {
				if idx >= len(b) {
					return 0, ErrTruncated
				}
				if b[idx] == breakCode {
					idx++
					break
				}
			} else if n == arg {
				break
			}
			if i >= ptr.Len() {
				return 0, fmt.Errorf("cbor: array too long for %s", ptr.Type())
			}
			var err error
			idx, err = d.decode(b, idx, ptr.Index(i))
			if err != nil {
				return 0, err
			}
			i++
		}
		return idx, nil
	}

	return 0, targetErr(ptr, MajorArray)
}

func (d *Decoder) decodeMap(b []byte, idx int, arg uint64, indef bool, ptr reflect.Value) (int, error) {
	if !indef && arg > uint64(len(b)-idx) {
		return 0, ErrCorrupt{errBadMapSize}
	}

	more := func(n uint64) (bool, error) {
		if indef {
			if idx >= len(b) {
				return false, ErrTruncated
			}
			if b[idx] == breakCode {
				idx++
				return false, nil
			}
			return true, nil
		}
		return n < arg, nil
	}

	switch ptr.Kind() {

	case reflect.Interface:
		type pair struct {
			k interface{}
			v interface{}
		}
		var pairs []pair
		allString := true
		for n := uint64(0); ; n++ {
			ok, err := more(n)
			if err != nil {
				return 0, err
			}
			if !ok {
				break
			}
			var p pair
			idx, err = d.decode(b, idx, reflect.ValueOf(&p.k).Elem())
			if err != nil {
				return 0, err
			}
			switch p.k.(type) {
			case string:
			case int, int64, uint64, bool, float32, float64:
				allString = false
			default:
				return 0, fmt.Errorf("cbor: unsupported map key type %T", p.k)
			}
			idx, err = d.decode(b, idx, reflect.ValueOf(&p.v).Elem())
			if err != nil {
				return 0, err
			}
			pairs = append(pairs, p)
		}
		if allString {
			out := make(map[string]interface{}, len(pairs))
			for _, p := range pairs {
				out[p.k.(string)] = p.v
			}
			ptr.Set(reflect.ValueOf(out))
		} else {
			out := make(map[interface{}]interface{}, len(pairs))
			for _, p := range pairs {
				out[p.k] = p.v
			}
			ptr.Set(reflect.ValueOf(out))
		}
		return idx, nil

	case reflect.Map:
		mv := reflect.MakeMap(ptr.Type())
		for n := uint64(0); ; n++ {
			ok, err := more(n)
			if err != nil {
				return 0, err
			}
			if !ok {
				break
			}
			key := reflect.New(ptr.Type().Key()).Elem()
			idx, err = d.decode(b, idx, key)
			if err != nil {
				return 0, err
			}
			val := reflect.New(ptr.Type().Elem()).Elem()
			idx, err = d.decode(b, idx, val)
			if err != nil {
				return 0, err
			}
			mv.SetMapIndex(key, val)
		}
		ptr.Set(mv)
		return idx, nil

	case reflect.Struct:
		tags := d.tcache.Get(ptr)
		for n := uint64(0); ; n++ {
			ok, err := more(n)
			if err != nil {
				return 0, err
			}
			if !ok {
				break
			}
			var key string
			idx, err = d.decode(b, idx, reflect.ValueOf(&key).Elem())
			if err != nil {
				return 0, err
			}
			if tg, found := tags[key]; found {
				idx, err = d.decode(b, idx, ptr.Field(tg.id))
			} else {
				idx, err = d.skipValue(b, idx)
			}
			if err != nil {
				return 0, err
			}
		}
		return idx, nil
	}

	return 0, targetErr(ptr, MajorMap)
}

// decodeBignum handles tags 2 and 3. Values that fit a native integer
// are delivered as one, so the result does not depend on which wire
// form the producer chose.
func (d *Decoder) decodeBignum(b []byte, idx int, neg bool, ptr reflect.Value) (int, error) {
	if idx >= len(b) {
		return 0, ErrTruncated
	}
	m, info := DecodeHead(b[idx])
	idx++
	if m != MajorByteString {
		return 0, ErrCorrupt{errBignumNotBytes}
	}
	arg, indef, sz, err := readArgBytes(b[idx:], info)
	if err != nil {
		return 0, err
	}
	if indef {
		return 0, ErrCorrupt{errBignumNotBytes}
	}
	idx += sz
	if arg > uint64(len(b)-idx) {
		return 0, ErrCorrupt{errBadStringSize}
	}

	bi := new(big.Int).SetBytes(b[idx : idx+int(arg)])
	idx += int(arg)
	if neg {
		bi.Not(bi) // -1-n
	}

	if ptr.Kind() != reflect.Interface && ptr.Type() == bigIntType {
		ptr.Set(reflect.ValueOf(*bi))
		return idx, nil
	}
	if bi.IsInt64() {
		return idx, setInt(ptr, bi.Int64())
	}
	if bi.IsUint64() {
		return idx, setUint(ptr, bi.Uint64())
	}
	return idx, setBig(ptr, bi)
}

// skipValue advances over one complete data item.
func (d *Decoder) skipValue(b []byte, idx int) (int, error) {
	if idx >= len(b) {
		return 0, ErrTruncated
	}
	major, info := DecodeHead(b[idx])
	idx++

	arg, indef, sz, err := readArgBytes(b[idx:], info)
	if err != nil {
		return 0, err
	}
	idx += sz

	switch major {

	case MajorUnsignedInt, MajorNegativeInt:
		if indef {
			return 0, ErrCorrupt{errIndefiniteScalar}
		}

	case MajorByteString, MajorTextString:
		_, idx, err = d.stringBody(b, idx, arg, indef, major)
		if err != nil {
			return 0, err
		}

	case MajorArray, MajorMap:
		for n := uint64(0); ; n++ {
			if indef {
				if idx >= len(b) {
					return 0, ErrTruncated
				}
				if b[idx] == breakCode {
					idx++
					break
				}
			} else if n == arg {
				break
			}
			if idx, err = d.skipValue(b, idx); err != nil {
				return 0, err
			}
			if major == MajorMap {
				if idx, err = d.skipValue(b, idx); err != nil {
					return 0, err
				}
			}
		}

	case MajorTag:
		if indef {
			return 0, ErrCorrupt{errIndefiniteScalar}
		}
		return d.skipValue(b, idx)

	case MajorSimple:
		if indef {
			return 0, ErrCorrupt{errUnexpectedBreak}
		}
	}

	return idx, nil
}

func targetErr(ptr reflect.Value, m MajorType) error {
	return fmt.Errorf("cbor: cannot unmarshal %s into %s", m, ptr.Type())
}

func setNil(ptr reflect.Value) error {
	switch ptr.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice:
		ptr.Set(reflect.Zero(ptr.Type()))
	}
	return nil
}

func setBool(ptr reflect.Value, v bool) error {
	switch ptr.Kind() {
	case reflect.Bool:
		ptr.SetBool(v)
	case reflect.Interface:
		ptr.Set(reflect.ValueOf(v))
	default:
		return targetErr(ptr, MajorSimple)
	}
	return nil
}

func setInt(ptr reflect.Value, n int64) error {
	switch ptr.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if ptr.OverflowInt(n) {
			return fmt.Errorf("cbor: value %d overflows %s", n, ptr.Type())
		}
		ptr.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || ptr.OverflowUint(uint64(n)) {
			return fmt.Errorf("cbor: value %d overflows %s", n, ptr.Type())
		}
		ptr.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		ptr.SetFloat(float64(n))
	case reflect.Interface:
		ptr.Set(reflect.ValueOf(int(n)))
	default:
		return targetErr(ptr, MajorUnsignedInt)
	}
	return nil
}

func setUint(ptr reflect.Value, u uint64) error {
	switch ptr.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if ptr.OverflowUint(u) {
			return fmt.Errorf("cbor: value %d overflows %s", u, ptr.Type())
		}
		ptr.SetUint(u)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if u > math.MaxInt64 || ptr.OverflowInt(int64(u)) {
			return fmt.Errorf("cbor: value %d overflows %s", u, ptr.Type())
		}
		ptr.SetInt(int64(u))
	case reflect.Interface:
		ptr.Set(reflect.ValueOf(u))
	default:
		return targetErr(ptr, MajorUnsignedInt)
	}
	return nil
}

func setBig(ptr reflect.Value, bi *big.Int) error {
	switch {
	case ptr.Kind() == reflect.Interface:
		ptr.Set(reflect.ValueOf(bi))
	case ptr.Type() == bigIntType:
		ptr.Set(reflect.ValueOf(*bi))
	default:
		return fmt.Errorf("cbor: value %s overflows %s", bi.String(), ptr.Type())
	}
	return nil
}

func setFloat(ptr reflect.Value, k reflect.Kind, f float64) error {
	switch ptr.Kind() {
	case reflect.Float32, reflect.Float64:
		ptr.SetFloat(f)
	case reflect.Interface:
		if k == reflect.Float32 {
			ptr.Set(reflect.ValueOf(float32(f)))
		} else {
			ptr.Set(reflect.ValueOf(f))
		}
	default:
		return targetErr(ptr, MajorSimple)
	}
	return nil
}

func setString(ptr reflect.Value, s string) error {
	switch ptr.Kind() {
	case reflect.String:
		ptr.SetString(s)
	case reflect.Interface:
		ptr.Set(reflect.ValueOf(s))
	default:
		return targetErr(ptr, MajorTextString)
	}
	return nil
}

func setBytes(ptr reflect.Value, data []byte) error {
	out := append([]byte(nil), data...)
	switch {
	case ptr.Kind() == reflect.Slice && ptr.Type().Elem().Kind() == reflect.Uint8:
		ptr.SetBytes(out)
	case ptr.Kind() == reflect.Interface:
		ptr.Set(reflect.ValueOf(out))
	default:
		return targetErr(ptr, MajorByteString)
	}
	return nil
}
