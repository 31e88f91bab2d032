// Command htm is the example driver for the HTM core library: synthetic
// spatial pooler runs, a one-hot classifier demo, MNIST digit
// classification, snapshot inspection and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "htm",
		Short: "HTM core: spatial pooler and temporal memory examples",
		Long: "Example programs for the HTM core library: stream synthetic or real\n" +
			"data through the spatial pooler, temporal memory and classifier.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSPCommand())
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newMNISTCommand())
	rootCmd.AddCommand(newSnapshotCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
