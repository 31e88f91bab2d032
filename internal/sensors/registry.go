package sensors

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

// Registry manages encoder factory functions and provides encoder creation
// by type name.
type Registry struct {
	factories map[string]Factory
	mutex     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the built-in encoder types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.factories[htm.EncoderTypeScalar] = func(config htm.EncoderConfig) (Encoder, error) {
		return NewScalarEncoder(config.Width, config.Min, config.Max, config.Size, config.Periodic)
	}
	r.factories[htm.EncoderTypeAdaptive] = func(config htm.EncoderConfig) (Encoder, error) {
		return NewAdaptiveScalarEncoderWindow(config.Width, config.Size, config.Min, config.Max, config.WindowSize)
	}
	r.factories[htm.EncoderTypeDelta] = func(config htm.EncoderConfig) (Encoder, error) {
		return NewDeltaEncoderWindow(config.Width, config.Size, config.Min, config.Max, config.WindowSize)
	}
	return r
}

// Register adds an encoder factory for the given type name.
func (r *Registry) Register(encoderType string, factory Factory) error {
	if encoderType == "" {
		return errors.New("encoder type cannot be empty")
	}
	if factory == nil {
		return errors.New("factory function cannot be nil")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.factories[encoderType]; exists {
		return fmt.Errorf("encoder type %q is already registered", encoderType)
	}
	r.factories[encoderType] = factory
	return nil
}

// Create instantiates a configured encoder of the requested type.
func (r *Registry) Create(config htm.EncoderConfig) (Encoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	factory, exists := r.factories[config.Type]
	r.mutex.RUnlock()

	if !exists {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig,
			fmt.Sprintf("unknown encoder type: %s", config.Type), "type")
	}
	return factory(config)
}

// IsRegistered checks if an encoder type is registered.
func (r *Registry) IsRegistered(encoderType string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, exists := r.factories[encoderType]
	return exists
}

// List returns the registered encoder type names, sorted.
func (r *Registry) List() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	types := make([]string, 0, len(r.factories))
	for encoderType := range r.factories {
		types = append(types, encoderType)
	}
	sort.Strings(types)
	return types
}
