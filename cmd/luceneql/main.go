// Command luceneql is the CLI entry point: parse, render, validate, and
// expand Lucene-style query text.
package main

import (
	"fmt"
	"os"

	"github.com/lucenequery/lucene/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
