package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		// Interrupted runs exit quietly with the conventional signal code.
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "medley: %v\n", err)
	os.Exit(1)
}
