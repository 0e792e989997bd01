//go:build gofuzz
// +build gofuzz

package cbor

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

func Fuzz(data []byte) int {
	var m interface{}

	if err := Unmarshal(data, &m); err != nil {
		return 0
	}

	var enc []byte
	var err error
	if enc, err = Marshal(m); err != nil {
		panic("unable to marshal")
	}

	var m2 interface{}
	if err := Unmarshal(enc, &m2); err != nil {
		panic("unmarshalling marshalled data")
	}

	if !reflect.DeepEqual(m, m2) {
		panic("failed to roundtrip")
	}

	return 1
}

type S struct {
	A int
	B string
	C float64
	D bool
	E uint8
	F []byte
	G interface{}
	H map[string]interface{}
	I map[string]string
	J []interface{}
	K []string
	L S1
	M *S1
	N *int
}

type S1 struct {
	A int
	B string
}

func FuzzStructure(data []byte) int {
	var s S

	if err := Unmarshal(data, &s); err != nil {
		return 0
	}

	var enc []byte
	var err error
	if enc, err = Marshal(s); err != nil {
		panic("unable to marshal")
	}

	var s2 S
	if err := Unmarshal(enc, &s2); err != nil {
		panic("unmarshalling marshalled data")
	}

	if !reflect.DeepEqual(s, s2) {
		diff := cmp.Diff(s, s2)
		panic("failed to roundtrip: " + diff)
	}

	return 1
}
