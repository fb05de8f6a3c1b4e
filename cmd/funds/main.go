package main

import (
	"os"

	"github.com/rustyeddy/funds/cmd/funds/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
