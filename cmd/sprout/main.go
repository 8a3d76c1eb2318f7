package main

import (
	"os"

	"github.com/born-ml/sprout/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
