package main

import (
	"os"

	"github.com/paylesstax/taxcalc/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
