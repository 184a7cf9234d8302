package main

import (
	"os"

	"lens-rules/cmd/lensrun/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
