// Package main provides the motif CLI.
package main

import (
	"os"

	"github.com/shepherdvovkes/Motif/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
