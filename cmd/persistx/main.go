package main

import (
	"os"

	"github.com/hengadev/persistx/cmd/persistx/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
