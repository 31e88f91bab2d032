package main

import (
	"log"

	"github.com/htm-project/htm-core/internal/api"
	"github.com/htm-project/htm-core/internal/infrastructure/config"
	"github.com/htm-project/htm-core/internal/sensors"
	"github.com/htm-project/htm-core/internal/services"
)

func main() {
	cfg := config.Load()

	modelService := services.NewModelService(sensors.DefaultRegistry())
	server := api.NewServer(cfg, modelService)

	log.Printf("HTM core API listening on %s", cfg.Server.Address())
	if err := server.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
