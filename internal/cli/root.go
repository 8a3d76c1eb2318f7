// Package cli implements the sprout command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Train small neural networks on tabular data",
	Long: "sprout trains feed-forward classifiers and regressors on CSV/JSON datasets.\n" +
		"Schema inference, normalization, and one-hot encoding are automatic;\n" +
		"the tensor math runs on Born.",
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
