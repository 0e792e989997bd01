//go:build !clibs
// +build !clibs

package cbor

import "github.com/klauspost/compress/zstd"

func zstdEncode(buf []byte, level int) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}

	return encoder.EncodeAll(buf, nil), nil
}

var zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

func zstdDecode(d, buf []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(buf, d)
}
