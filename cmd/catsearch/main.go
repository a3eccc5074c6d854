package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupted fetch has already saved its partial catalog, so
		// cancellation exits without an extra message.
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "catsearch:", err)
		os.Exit(1)
	}
}
