package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/htm-project/htm-core/internal/cortical/rng"
	"github.com/htm-project/htm-core/internal/cortical/spatial"
	"github.com/htm-project/htm-core/internal/domain/htm"
	"github.com/htm-project/htm-core/pkg/snapshot"
)

// newSPCommand streams random synthetic bit patterns through the spatial
// pooler and prints the winner columns per step.
func newSPCommand() *cobra.Command {
	var steps int
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "sp",
		Short: "Run the spatial pooler over random synthetic bit patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := htm.DefaultSpatialPoolerConfig([]int{32, 32}, []int{64, 64})
			config.PotentialRadius = -1
			config.GlobalInhibition = true
			config.NumActiveColumnsPerInhArea = 0.02 * float64(config.NumColumns())
			config.Permanence.ActiveInc = 0.01
			config.CompatibilityMode = true

			start := time.Now()
			pooler, err := spatial.NewSpatialPooler(config)
			if err != nil {
				return err
			}
			fmt.Printf("Initializing: %v\n", time.Since(start))

			random := rng.FromSeed([4]uint32{42, 0, 0, 0})
			input := make([]bool, pooler.NumInputs())

			for step := 0; step < steps; step++ {
				for i := range input {
					input[i] = random.NextBounded(2) == 1
				}
				pooler.Compute(input, true)

				winners := append([]int(nil), pooler.WinnerColumns()...)
				sort.Ints(winners)
				fmt.Printf("%v\n", winners)
			}

			if snapshotPath != "" {
				codec := snapshot.NewCodec(true)
				if err := codec.WriteFile(snapshotPath, pooler.State()); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				fmt.Printf("snapshot written to %s\n", snapshotPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 10, "Number of random patterns to process")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Write learned pooler state to this file")
	return cmd
}
