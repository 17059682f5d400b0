package main

import (
	"os"

	"github.com/battcast/backend/cmd/battcast/commands"
)

// main is the entry point for the battcast CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
