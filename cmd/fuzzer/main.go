package main

import (
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"os"

	"github.com/cborwire/cbor"
	"github.com/dgryski/go-ddmin"
)

// panics reports whether decoding doc crashes the decoder.
func panics(doc []byte) (crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			crashed = true
		}
	}()

	var decoder cbor.Decoder
	var m interface{}
	decoder.Unmarshal(doc, &m)
	return false
}

func main() {

	for {
		l := 1 + mrand.Intn(200)
		doc := make([]byte, l)
		crand.Read(doc)

		if !panics(doc) {
			continue
		}

		fmt.Println("crasher found, minimizing")

		min := ddmin.Minimize(doc, func(d []byte) ddmin.Result {
			if panics(d) {
				return ddmin.Fail
			}
			return ddmin.Pass
		})

		fmt.Println(hex.Dump(min))
		os.Exit(1)
	}
}
