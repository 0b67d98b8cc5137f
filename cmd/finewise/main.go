package main

import (
	"os"

	"github.com/finewise-dev/finewise/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
