package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htm-project/htm-core/internal/api"
	"github.com/htm-project/htm-core/internal/infrastructure/config"
	"github.com/htm-project/htm-core/internal/sensors"
	"github.com/htm-project/htm-core/internal/services"
)

// newServeCommand starts the HTTP API, optionally pre-creating a model from
// a YAML parameter file.
func newServeCommand() *cobra.Command {
	var modelFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTM core HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			modelService := services.NewModelService(sensors.DefaultRegistry())

			if modelFile != "" {
				modelConfig, err := config.LoadModelConfig(modelFile)
				if err != nil {
					return err
				}
				info, err := modelService.CreateModel(modelConfig)
				if err != nil {
					return err
				}
				fmt.Printf("model %q created: %s\n", info.Name, info.ID)
			}

			fmt.Printf("listening on %s\n", cfg.Server.Address())
			return api.NewServer(cfg, modelService).Run()
		},
	}

	cmd.Flags().StringVar(&modelFile, "model", "", "YAML model parameter file to pre-create")
	return cmd
}
