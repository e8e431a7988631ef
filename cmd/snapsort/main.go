package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupted runs already logged their failure; anything else
		// gets one line on stderr before the fatal exit code.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "snapsort:", err)
		}
		os.Exit(1)
	}
}
