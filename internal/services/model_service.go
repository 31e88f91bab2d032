// Package services implements the application services that wire encoders,
// the spatial pooler, the temporal memory and the classifier into runnable
// model instances.
package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/htm-project/htm-core/internal/cortical/classifier"
	"github.com/htm-project/htm-core/internal/cortical/spatial"
	"github.com/htm-project/htm-core/internal/cortical/temporal"
	"github.com/htm-project/htm-core/internal/domain/htm"
	"github.com/htm-project/htm-core/internal/infrastructure/validation"
	"github.com/htm-project/htm-core/internal/sensors"
)

// model is one assembled pipeline instance. The core algorithms are
// single-threaded; the per-model mutex serializes compute steps.
type model struct {
	id     uuid.UUID
	config *htm.ModelConfig

	encoder    sensors.Encoder
	pooler     *spatial.SpatialPooler
	memory     *temporal.TemporalMemory
	classifier *classifier.SDRClassifier

	input     []bool
	recordNum int
	mutex     sync.Mutex
}

// ModelService implements ports.ModelService over an in-process model
// registry.
type ModelService struct {
	encoders  *sensors.Registry
	validator *validation.Validator

	models map[uuid.UUID]*model
	mutex  sync.RWMutex
}

// NewModelService creates a model service backed by the given encoder
// registry.
func NewModelService(encoders *sensors.Registry) *ModelService {
	if encoders == nil {
		encoders = sensors.DefaultRegistry()
	}
	return &ModelService{
		encoders:  encoders,
		validator: validation.New(),
		models:    make(map[uuid.UUID]*model),
	}
}

// CreateModel validates the configuration, assembles the pipeline and
// registers it under a fresh UUID.
func (s *ModelService) CreateModel(config *htm.ModelConfig) (*htm.ModelInfo, error) {
	if err := s.validator.Validate(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := &model{id: uuid.New(), config: config}

	if config.Encoder != nil {
		encoder, err := s.encoders.Create(*config.Encoder)
		if err != nil {
			return nil, err
		}
		m.encoder = encoder
	}

	pooler, err := spatial.NewSpatialPooler(config.SpatialPooler)
	if err != nil {
		return nil, err
	}
	m.pooler = pooler
	m.input = make([]bool, pooler.NumInputs())

	if config.TemporalMemory != nil {
		memory, err := temporal.NewTemporalMemory(pooler.NumColumns(), config.TemporalMemory)
		if err != nil {
			return nil, err
		}
		m.memory = memory
	}

	if config.Classifier != nil {
		cls, err := classifier.NewSDRClassifier(
			config.Classifier.Steps, config.Classifier.Alpha,
			config.Classifier.ActValueAlpha, pooler.NumColumns())
		if err != nil {
			return nil, err
		}
		m.classifier = cls
	}

	s.mutex.Lock()
	s.models[m.id] = m
	s.mutex.Unlock()

	return m.info(false), nil
}

// GetModel returns a model descriptor with its configuration attached.
func (s *ModelService) GetModel(id string) (*htm.ModelInfo, error) {
	m, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return m.info(true), nil
}

// ListModels returns descriptors of every registered model.
func (s *ModelService) ListModels() []*htm.ModelInfo {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	infos := make([]*htm.ModelInfo, 0, len(s.models))
	for _, m := range s.models {
		infos = append(infos, m.info(false))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// DeleteModel removes a model instance.
func (s *ModelService) DeleteModel(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return htm.NewError(htm.ErrorNotFound, "unknown model id")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.models[parsed]; !exists {
		return htm.NewError(htm.ErrorNotFound, "unknown model id")
	}
	delete(s.models, parsed)
	return nil
}

// Compute runs one time step: encode (or splat the raw bits), spatial
// pooling, temporal memory and classification, in pipeline order.
func (s *ModelService) Compute(id string, request *htm.ComputeRequest) (*htm.ComputeResponse, error) {
	m, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := request.Validate(m.encoder != nil); err != nil {
		return nil, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	bucketIdx := -1
	if request.Value != nil {
		m.encoder.EncodeInto(*request.Value, m.input)
		if bucket, ok := m.encoder.BucketIndex(*request.Value); ok {
			bucketIdx = bucket
		}
	} else {
		for i := range m.input {
			m.input[i] = false
		}
		for _, bit := range request.ActiveBits {
			if bit < len(m.input) {
				m.input[bit] = true
			}
		}
	}
	if request.BucketIndex != nil {
		bucketIdx = *request.BucketIndex
	}

	m.pooler.Compute(m.input, request.Learn)

	winners := append([]int(nil), m.pooler.WinnerColumns()...)
	sort.Ints(winners)

	response := &htm.ComputeResponse{
		ModelID:       m.id.String(),
		RecordNum:     m.recordNum,
		WinnerColumns: winners,
		Sparsity:      float64(len(winners)) / float64(m.pooler.NumColumns()),
	}

	if m.memory != nil {
		m.memory.Compute(winners, request.Learn)
		response.ActiveCells = cellRefs(m.memory.ActiveCells())
		response.PredictiveCells = predictiveRefs(m.memory)
	}

	if m.classifier != nil && bucketIdx >= 0 {
		actualValue := 0.0
		if request.Value != nil {
			actualValue = *request.Value
		}
		results := m.classifier.Compute(m.recordNum, bucketIdx, actualValue, winners,
			request.Learn, request.Infer)
		for _, result := range results {
			best := result.MostProbableBucket()
			prediction := htm.Prediction{
				Step:               result.Step,
				Likelihoods:        result.Likelihoods,
				MostProbableBucket: best,
				PredictedValue:     m.classifier.ActualValue(best),
			}
			response.Predictions = append(response.Predictions, prediction)
		}
	}

	m.recordNum++
	return response, nil
}

// Reset clears a model's temporal activation state. Learned synapses, duty
// cycles and classifier weights survive.
func (s *ModelService) Reset(id string) error {
	m, err := s.lookup(id)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.memory != nil {
		m.memory.Reset()
	}
	return nil
}

// Metrics reports the model's behavioral counters.
func (s *ModelService) Metrics(id string) (*htm.ModelMetrics, error) {
	m, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	metrics := &htm.ModelMetrics{
		ModelID:       m.id.String(),
		SpatialPooler: m.pooler.Metrics(),
	}
	if m.memory != nil {
		tmMetrics := m.memory.Metrics()
		metrics.TemporalMemory = &tmMetrics
	}
	return metrics, nil
}

func (s *ModelService) lookup(id string) (*model, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, htm.NewError(htm.ErrorNotFound, "unknown model id")
	}
	s.mutex.RLock()
	m, exists := s.models[parsed]
	s.mutex.RUnlock()
	if !exists {
		return nil, htm.NewError(htm.ErrorNotFound, "unknown model id")
	}
	return m, nil
}

func (m *model) info(withConfig bool) *htm.ModelInfo {
	info := &htm.ModelInfo{
		ID:         m.id.String(),
		Name:       m.config.Name,
		NumInputs:  m.pooler.NumInputs(),
		NumColumns: m.pooler.NumColumns(),
		HasEncoder: m.encoder != nil,
		HasMemory:  m.memory != nil,
		RecordNum:  m.recordNum,
	}
	if withConfig {
		info.Config = m.config
	}
	return info
}

func cellRefs(cells []temporal.Cell) []htm.CellRef {
	refs := make([]htm.CellRef, len(cells))
	for i, cell := range cells {
		refs[i] = htm.CellRef{Column: cell.Column, Cell: cell.Cell}
	}
	return refs
}

func predictiveRefs(memory *temporal.TemporalMemory) []htm.CellRef {
	predictive := memory.PredictiveCells()
	cells := make([]temporal.Cell, 0, len(predictive))
	for cell := range predictive {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cellRefs(cells)
}
