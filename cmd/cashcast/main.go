package main

import (
	"os"

	"github.com/cashcast-dev/cashcast/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
