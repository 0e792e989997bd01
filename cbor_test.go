package cbor

import (
	"encoding/hex"
	"math"
	"math/big"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

var roundtrips = []interface{}{
	nil,
	true,
	false,
	0,
	1,
	10,
	23,
	24,
	100,
	255,
	256,
	1000,
	65535,
	65536,
	-1,
	-15,
	-16,
	-17,
	-100,
	-2613115362782646504,
	int(math.MinInt64),
	uint64(0xdbbc596c24396f18),
	"hello",
	"hello, world",
	"twas brillig and the slithy toves and gyre and gimble in the wabe",
	float32(2.2),
	float32(9891234567890.098),
	float64(2.2),
	float64(9891234567890.098),
	[]byte{0x01, 0x02, 0x03},
	[]interface{}{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
	[]interface{}{1, 100, 1000, 2000, 0xdeadbeef, float32(2.2), "hello, world", map[string]interface{}{"foo": []interface{}{1, 2, 3}}},
	map[string]interface{}{"foo": 1, "bar": 2, "baz": "qux"},
}

func TestRoundtrip(t *testing.T) {
	e := &Encoder{}
	d := &Decoder{}

	for _, v := range roundtrips {
		b, err := e.Marshal(v)
		if err != nil {
			t.Errorf("failed marshalling: %v: %s", v, err)
			continue
		}
		var unp interface{}
		if err := d.Unmarshal(b, &unp); err != nil {
			t.Errorf("error during unmarshal: %s", err)
			continue
		}
		if !reflect.DeepEqual(v, unp) {
			t.Errorf("failed roundtripping %#v", v)
			t.Log("got=", spew.Sdump(unp))
		}
	}
}

func TestRoundtripCompactFloats(t *testing.T) {
	e := &Encoder{CompactFloats: true}
	d := &Decoder{}

	for _, v := range roundtrips {
		b, err := e.Marshal(v)
		if err != nil {
			t.Errorf("failed marshalling: %v: %s", v, err)
			continue
		}
		var unp interface{}
		if err := d.Unmarshal(b, &unp); err != nil {
			t.Errorf("error during unmarshal: %s", err)
			continue
		}
		// widths may shrink, so compare values through float64
		var f64 float64
		switch f := v.(type) {
		case float32:
			f64 = float64(f)
		case float64:
			f64 = f
		default:
			if !reflect.DeepEqual(v, unp) {
				t.Errorf("failed roundtripping %#v", v)
				t.Log("got=", spew.Sdump(unp))
			}
			continue
		}
		var got float64
		switch g := unp.(type) {
		case float32:
			got = float64(g)
		case float64:
			got = g
		default:
			t.Errorf("float %v decoded to non-float %#v", v, unp)
			continue
		}
		if got != f64 {
			t.Errorf("compact float roundtrip: want %v got %v", f64, got)
		}
	}
}

func TestCompactFloatWidths(t *testing.T) {
	e := &Encoder{CompactFloats: true}

	vectors := []struct {
		v    interface{}
		want string
	}{
		{float64(1.5), "f93e00"},
		{float64(100000.0), "fa47c35000"},
		{float64(0.1), "fb3fb999999999999a"},
		{math.Inf(1), "f97c00"},
		{float32(1.0), "f93c00"},
	}

	for _, tc := range vectors {
		b, err := e.Marshal(tc.v)
		if err != nil {
			t.Fatal(err)
		}
		if got := hex.EncodeToString(b); got != tc.want {
			t.Errorf("Marshal(%v) = %s, want %s", tc.v, got, tc.want)
		}
	}
}

// decode vectors lifted from RFC 8949 appendix A
func TestDecodeVectors(t *testing.T) {
	vectors := []struct {
		enc  string
		want interface{}
	}{
		{"00", 0},
		{"17", 23},
		{"1818", 24},
		{"190100", 256},
		{"1a000f4240", 1000000},
		{"1b000000e8d4a51000", 1000000000000},
		{"1bffffffffffffffff", uint64(18446744073709551615)},
		{"20", -1},
		{"3863", -100},
		{"3903e7", -1000},
		{"6161", "a"},
		{"6449455446", "IETF"},
		{"4401020304", []byte{1, 2, 3, 4}},
		{"80", []interface{}{}},
		{"83010203", []interface{}{1, 2, 3}},
		{"a201020304", map[interface{}]interface{}{1: 2, 3: 4}},
		{"a26161016162820203", map[string]interface{}{"a": 1, "b": []interface{}{2, 3}}},
		{"f4", false},
		{"f5", true},
		{"f6", nil},
		{"f7", nil},
		{"f90000", float32(0.0)},
		{"f93c00", float32(1.0)},
		{"fa47c35000", float32(100000.0)},
		{"fb3ff199999999999a", 1.1},

		// indefinite-length items
		{"5f42010243030405ff", []byte{1, 2, 3, 4, 5}},
		{"7f657374726561646d696e67ff", "streaming"},
		{"9fff", []interface{}{}},
		{"9f018202039f0405ffff", []interface{}{1, []interface{}{2, 3}, []interface{}{4, 5}}},
		{"bf61610161629f0203ffff", map[string]interface{}{"a": 1, "b": []interface{}{2, 3}}},
	}

	for _, tc := range vectors {
		b, err := hex.DecodeString(tc.enc)
		if err != nil {
			t.Fatal(err)
		}
		var got interface{}
		if err := Unmarshal(b, &got); err != nil {
			t.Errorf("Unmarshal(%s): %s", tc.enc, err)
			continue
		}
		if !reflect.DeepEqual(tc.want, got) {
			t.Errorf("Unmarshal(%s) mismatch", tc.enc)
			t.Log("want=", spew.Sdump(tc.want))
			t.Log("got=", spew.Sdump(got))
		}
	}
}

func TestDecodeNaN(t *testing.T) {
	b, _ := hex.DecodeString("f97e00")
	var got interface{}
	if err := Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	f, ok := got.(float32)
	if !ok || !math.IsNaN(float64(f)) {
		t.Errorf("expected NaN, got %#v", got)
	}
}

func TestBignum(t *testing.T) {
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)

	b, err := Marshal(two64)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := hex.EncodeToString(b), "c249010000000000000000"; got != want {
		t.Fatalf("Marshal(2^64) = %s, want %s", got, want)
	}

	var unp interface{}
	if err := Unmarshal(b, &unp); err != nil {
		t.Fatal(err)
	}
	bi, ok := unp.(*big.Int)
	if !ok || bi.Cmp(two64) != 0 {
		t.Errorf("roundtrip of 2^64 failed: %#v", unp)
	}

	// -2^64 still fits major type 1
	minusTwo64 := new(big.Int).Neg(two64)
	b, err = Marshal(minusTwo64)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := hex.EncodeToString(b), "3bffffffffffffffff"; got != want {
		t.Fatalf("Marshal(-2^64) = %s, want %s", got, want)
	}
	unp = nil
	if err := Unmarshal(b, &unp); err != nil {
		t.Fatal(err)
	}
	bi, ok = unp.(*big.Int)
	if !ok || bi.Cmp(minusTwo64) != 0 {
		t.Errorf("roundtrip of -2^64 failed: %#v", unp)
	}

	// -2^64-1 needs the negative bignum tag
	small := new(big.Int).Sub(minusTwo64, big.NewInt(1))
	b, err = Marshal(small)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := hex.EncodeToString(b), "c349010000000000000000"; got != want {
		t.Fatalf("Marshal(-2^64-1) = %s, want %s", got, want)
	}
	unp = nil
	if err := Unmarshal(b, &unp); err != nil {
		t.Fatal(err)
	}
	bi, ok = unp.(*big.Int)
	if !ok || bi.Cmp(small) != 0 {
		t.Errorf("roundtrip of -2^64-1 failed: %#v", unp)
	}

	// decoding into a big.Int target works for any integer width
	var direct big.Int
	if err := Unmarshal(b, &direct); err != nil {
		t.Fatal(err)
	}
	if direct.Cmp(small) != 0 {
		t.Errorf("decode into big.Int failed: %s", direct.String())
	}

	// a bignum that fits a native int comes back as one
	b, _ = hex.DecodeString("c24105")
	unp = nil
	if err := Unmarshal(b, &unp); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(unp, 5) {
		t.Errorf("small bignum not normalized: %#v", unp)
	}
}

type testInner struct {
	A int `cbor:"a"`
}

type testEvent struct {
	Name   string     `cbor:"name"`
	Count  int        `cbor:"count,omitempty"`
	Blob   []byte     `cbor:"blob"`
	Inner  *testInner `cbor:"inner"`
	Hidden string     `cbor:"-"`
	secret int
}

func TestStructRoundtrip(t *testing.T) {
	in := testEvent{
		Name:   "checkpoint",
		Count:  3,
		Blob:   []byte{0xde, 0xad},
		Inner:  &testInner{A: -7},
		Hidden: "not on the wire",
		secret: 42,
	}

	b, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out testEvent
	if err := Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}

	want := in
	want.Hidden = ""
	want.secret = 0
	if !reflect.DeepEqual(want, out) {
		t.Errorf("struct roundtrip failed")
		t.Log("got=", spew.Sdump(out))
	}
}

func TestStructOmitEmpty(t *testing.T) {
	b, err := Marshal(testEvent{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if _, present := m["count"]; present {
		t.Error("omitempty field encoded at zero value")
	}
}

func TestStructUnknownKeys(t *testing.T) {
	b, err := Marshal(map[string]interface{}{
		"name":  "y",
		"bogus": []interface{}{1, 2, map[string]interface{}{"deep": "skip"}},
		"count": 9,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out testEvent
	if err := Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "y" || out.Count != 9 {
		t.Errorf("unknown-key skipping broke known fields: %+v", out)
	}
}

func TestRawMessage(t *testing.T) {
	raw := RawMessage{0x83, 0x01, 0x02, 0x03}

	b, err := Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual([]byte(raw), b) {
		t.Errorf("RawMessage not passed through: %x", b)
	}

	var out RawMessage
	if err := Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(raw, out) {
		t.Errorf("RawMessage capture failed: %x", out)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		enc  string
		want error
	}{
		{"", ErrTruncated},
		{"1c", ErrReservedAddInfo{Info: 28}},
		{"1d", ErrReservedAddInfo{Info: 29}},
		{"1e", ErrReservedAddInfo{Info: 30}},
		{"811d", ErrReservedAddInfo{Info: 29}}, // reserved info nested in an array
		{"ff", ErrCorrupt{errUnexpectedBreak}},
		{"18", ErrTruncated},
		{"3f", ErrCorrupt{errIndefiniteScalar}},
		{"6261", ErrCorrupt{errBadStringSize}},
		{"5f6161ff", ErrCorrupt{errBadChunk}}, // text chunk inside an indefinite byte string
		{"c241", ErrCorrupt{errBadStringSize}},
		{"c205", ErrCorrupt{errBignumNotBytes}},
	}

	for _, tc := range cases {
		b, err := hex.DecodeString(tc.enc)
		if err != nil {
			t.Fatal(err)
		}
		var v interface{}
		got := Unmarshal(b, &v)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Unmarshal(%q) error = %v, want %v", tc.enc, got, tc.want)
		}
	}

	var notPtr int
	if err := Unmarshal([]byte{0x00}, notPtr); err != ErrDecodePointer {
		t.Errorf("expected ErrDecodePointer, got %v", err)
	}
}

func TestDecodeIntoTyped(t *testing.T) {
	b, _ := Marshal(map[string]interface{}{"a": 1, "b": 2})
	var m map[string]int
	if err := Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["a"] != 1 || m["b"] != 2 {
		t.Errorf("typed map decode failed: %v", m)
	}

	b, _ = Marshal([]interface{}{1, 2, 3})
	var s []uint16
	if err := Unmarshal(b, &s); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, []uint16{1, 2, 3}) {
		t.Errorf("typed slice decode failed: %v", s)
	}

	var arr [3]int
	if err := Unmarshal(b, &arr); err != nil {
		t.Fatal(err)
	}
	if arr != [3]int{1, 2, 3} {
		t.Errorf("array decode failed: %v", arr)
	}

	// value overflow is reported, not truncated
	b, _ = Marshal(300)
	var one int8
	if err := Unmarshal(b, &one); err == nil {
		t.Error("expected overflow error decoding 300 into int8")
	}
}

func BenchmarkMarshal(b *testing.B) {
	doc := map[string]interface{}{
		"id":     123456,
		"name":   "observation",
		"values": []interface{}{1.5, 2.5, 3.5, 4.5},
		"tags":   map[string]interface{}{"unit": "ms", "source": "bench"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Marshal(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	doc := map[string]interface{}{
		"id":     123456,
		"name":   "observation",
		"values": []interface{}{1.5, 2.5, 3.5, 4.5},
		"tags":   map[string]interface{}{"unit": "ms", "source": "bench"},
	}
	enc, err := Marshal(doc)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var m interface{}
		if err := Unmarshal(enc, &m); err != nil {
			b.Fatal(err)
		}
	}
}
