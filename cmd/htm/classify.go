package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/htm-project/htm-core/internal/cortical/classifier"
	"github.com/htm-project/htm-core/internal/cortical/spatial"
	"github.com/htm-project/htm-core/internal/domain/htm"
)

// newClassifyCommand trains the pooler plus classifier on a repeating
// one-hot 0..9 sequence and prints the per-step predictions of the final
// pass.
func newClassifyCommand() *cobra.Command {
	var epochs int

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "One-hot digit sequence through spatial pooler and classifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := htm.DefaultSpatialPoolerConfig([]int{10}, []int{100})
			config.PotentialRadius = 3
			config.GlobalInhibition = true
			config.NumActiveColumnsPerInhArea = 0.02 * float64(config.NumColumns())
			config.Permanence.ActiveInc = 0.01
			config.CompatibilityMode = true

			pooler, err := spatial.NewSpatialPooler(config)
			if err != nil {
				return err
			}
			cls, err := classifier.NewSDRClassifier([]int{0, 1}, 0.1, 0.3, pooler.NumColumns())
			if err != nil {
				return err
			}

			input := make([]bool, pooler.NumInputs())
			record := 0
			for epoch := 0; epoch < epochs; epoch++ {
				for value := 0; value < 10; value++ {
					for i := range input {
						input[i] = false
					}
					input[value] = true

					pooler.Compute(input, true)
					winners := append([]int(nil), pooler.WinnerColumns()...)
					sort.Ints(winners)

					results := cls.Compute(record, value, float64(value), winners, true, true)
					if epoch == epochs-1 {
						fmt.Printf("value: %d\n", value)
						for _, result := range results {
							best := result.MostProbableBucket()
							fmt.Printf("  step %d -> bucket %d (p=%.3f)\n",
								result.Step, best, result.Likelihoods[best])
						}
					}
					record++
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&epochs, "epochs", 100, "Training passes over the digit sequence")
	return cmd
}
