// Package ports defines the service interfaces that separate the HTTP layer
// from the model implementations.
package ports

import "github.com/htm-project/htm-core/internal/domain/htm"

// ModelService manages HTM model instances and drives their per-step
// computation.
type ModelService interface {
	// CreateModel builds a model from the configuration and returns its
	// descriptor.
	CreateModel(config *htm.ModelConfig) (*htm.ModelInfo, error)

	// GetModel returns the descriptor of a model, including its config.
	GetModel(id string) (*htm.ModelInfo, error)

	// ListModels returns descriptors of all models.
	ListModels() []*htm.ModelInfo

	// DeleteModel removes a model instance.
	DeleteModel(id string) error

	// Compute runs one time step against a model.
	Compute(id string, request *htm.ComputeRequest) (*htm.ComputeResponse, error)

	// Reset clears a model's temporal state without touching learned
	// structure.
	Reset(id string) error

	// Metrics reports the model's behavioral counters.
	Metrics(id string) (*htm.ModelMetrics, error)
}
