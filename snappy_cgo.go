//go:build clibs
// +build clibs

package cbor

import snappy "github.com/dgryski/go-csnappy"

func snappyEncode(dst, src []byte) []byte {
	b, _ := snappy.Encode(dst, src)
	return b
}

func snappyDecode(dst, src []byte) ([]byte, error) { return snappy.Decode(dst, src) }
