package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/cborwire/cbor"
	"github.com/davecgh/go-spew/spew"
)

var enveloped = flag.Bool("e", false, "input is an enveloped document")

func process(fname string, b []byte) {

	if *enveloped {
		var env cbor.Envelope
		body, err := env.Unpack(b)
		if err != nil {
			log.Fatalf("error unpacking %s: %s", fname, err)
		}
		b = body
	}

	var i interface{}
	d := cbor.Decoder{}

	err := d.Unmarshal(b, &i)

	if err != nil {
		log.Fatalf("error processing %s: %s", fname, err)
	}

	spew.Dump(i)
}

func main() {

	flag.Parse()

	if flag.NArg() == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("error reading stdin: %s", err)
		}
		process("stdin", b)
		return
	}

	for _, arg := range flag.Args() {
		b, err := os.ReadFile(arg)
		if err != nil {
			log.Fatalf("error reading %s: %s", arg, err)
		}
		process(arg, b)
	}
}
