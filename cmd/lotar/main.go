// Package main provides the entry point for the lotar CLI.
package main

import (
	"os"

	"github.com/lotar-dev/lotar/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
