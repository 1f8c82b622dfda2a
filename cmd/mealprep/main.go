package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// errorClassifier is implemented by errors that carry a stable kind.
type errorClassifier interface {
	ErrorKind() string
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 for bad input data and 1 for everything else.
func exitCode(err error) int {
	var classified errorClassifier
	if errors.As(err, &classified) && classified.ErrorKind() == "validation" {
		return 2
	}
	return 1
}
