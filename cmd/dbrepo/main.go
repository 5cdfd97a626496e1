// Package main is the entry point for the dbrepo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/aertgo/dbrepo/cmd/dbrepo/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
