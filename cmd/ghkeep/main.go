package main

import (
	"os"

	"github.com/ghkeep/ghkeep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
