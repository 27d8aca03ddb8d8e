package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "daybook failed: %v\n", err)
		os.Exit(1)
	}
}
