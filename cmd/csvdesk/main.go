// csvdesk is the command-line client for the CSV upload and annotation
// backend.
//
// Usage:
//
//	csvdesk login --email <email> --password <password>
//	csvdesk upload <file.csv> [--describe <column>] [--download <dir>] [--analyze] [--validate]
//	csvdesk files [name]
//	csvdesk feedback --purpose <text> ...
//	csvdesk status
//	csvdesk serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
