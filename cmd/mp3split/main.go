// Package main is the entry point for the mp3split command.
//
// Usage:
//
//	mp3split [input_file] [chunk_minutes] [output_prefix] [flags]
//
// Commands:
//
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/simonhull/mp3split/cmd/mp3split/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
