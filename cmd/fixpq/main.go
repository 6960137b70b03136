// Package main provides the fixpq command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/fixpq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
