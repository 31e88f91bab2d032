package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htm-project/htm-core/internal/cortical/spatial"
	"github.com/htm-project/htm-core/pkg/snapshot"
)

// newSnapshotCommand inspects and verifies spatial pooler snapshot files.
func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect spatial pooler snapshot files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info <file>",
		Short: "Print header and summary of a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			codec := snapshot.NewCodec(false)
			header, err := codec.ReadHeader(raw)
			if err != nil {
				return err
			}
			fmt.Printf("version: %d\n", header.Version)
			fmt.Printf("compressed: %v\n", header.Flags&snapshot.FlagCompressed != 0)
			fmt.Printf("payload: %d bytes\n", header.DataLen)

			state, err := codec.Decode(raw)
			if err != nil {
				return err
			}
			fmt.Printf("inputs: %v columns: %v\n",
				state.Config.InputDimensions, state.Config.ColumnDimensions)
			fmt.Printf("iterations: %d (learned %d)\n", state.Iteration, state.LearnIteration)
			fmt.Printf("synapses: %d\n", len(state.PoolInputs))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <file>",
		Short: "Check that a snapshot restores into a working pooler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := snapshot.NewCodec(false)
			state, err := codec.ReadFile(args[0])
			if err != nil {
				return err
			}
			pooler, err := spatial.FromState(state)
			if err != nil {
				return err
			}
			fmt.Printf("ok: %s\n", pooler)
			return nil
		},
	})

	return cmd
}
