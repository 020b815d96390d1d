package main

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
)

func main() {
	// Keep the launcher's own output away from stdout.
	browser.Stdout = os.Stderr

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
