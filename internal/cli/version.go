package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the sprout version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("sprout", Version)
		},
	}
	RootCmd.AddCommand(cmd)
}
