// Command h3headers transcodes an HTTP/1.1-style request head read from
// stdin into the ordered HTTP/3 pseudo-header list and prints it, one
// field per line. Useful for checking what a request will look like
// before it reaches the protocol engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/lapakiosstore/curl/pkg/vquic"
)

func main() {
	plain := flag.Bool("plain", false, "emit :scheme http instead of https")
	flag.Parse()

	block, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("read stdin: %v", err)
	}

	fields, err := vquic.TranscodeHeaderBlock(block, !*plain)
	if err != nil {
		log.Fatalf("transcode: %v", err)
	}
	for _, f := range fields {
		fmt.Printf("%s: %s\n", f.Name, f.Value)
	}
}
