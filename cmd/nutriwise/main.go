// ABOUTME: Entry point for the nutriwise CLI.
// ABOUTME: Invokes the root Cobra command and reports errors on stderr.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
