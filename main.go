package main

import (
	"os"

	"github.com/bacalhau-project/convergence/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
