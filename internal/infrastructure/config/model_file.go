package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

// LoadModelConfig reads a model parameter bundle from a YAML file. Unknown
// keys are rejected so a typoed parameter fails loudly instead of silently
// falling back to a default.
func LoadModelConfig(path string) (*htm.ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model config: %w", err)
	}
	return ParseModelConfig(data)
}

// ParseModelConfig decodes a model parameter bundle from YAML bytes.
func ParseModelConfig(data []byte) (*htm.ModelConfig, error) {
	modelConfig := &htm.ModelConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(modelConfig); err != nil {
		return nil, fmt.Errorf("decode model config: %w", err)
	}

	if modelConfig.SpatialPooler == nil {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig,
			"spatial pooler section is required", "spatial_pooler")
	}
	applyDefaults(modelConfig)
	return modelConfig, nil
}

// applyDefaults replaces zero values of the parameters checked below with the
// reference defaults. Other parameters keep the decoded value, which is zero
// or false when the YAML omits them: the spatial pooler's stimulus threshold,
// minimum duty-cycle fractions and wrap_around, and the temporal memory's
// permanence increment, decrement and predicted-segment decrement. The
// permanence bundle is replaced only when it is omitted entirely.
func applyDefaults(modelConfig *htm.ModelConfig) {
	sp := modelConfig.SpatialPooler
	defaults := htm.DefaultSpatialPoolerConfig(sp.InputDimensions, sp.ColumnDimensions)
	if sp.PotentialRadius == 0 {
		sp.PotentialRadius = defaults.PotentialRadius
	}
	if sp.PotentialPct == 0 {
		sp.PotentialPct = defaults.PotentialPct
	}
	if sp.LocalAreaDensity == 0 && sp.NumActiveColumnsPerInhArea == 0 {
		sp.LocalAreaDensity = defaults.LocalAreaDensity
	}
	if sp.DutyCyclePeriod == 0 {
		sp.DutyCyclePeriod = defaults.DutyCyclePeriod
	}
	if sp.MaxBoost == 0 {
		sp.MaxBoost = defaults.MaxBoost
	}
	if sp.UpdatePeriod == 0 {
		sp.UpdatePeriod = defaults.UpdatePeriod
	}
	if sp.InitConnectedPct == 0 {
		sp.InitConnectedPct = defaults.InitConnectedPct
	}
	if sp.Permanence == (htm.SynapsePermanenceOptions{}) {
		sp.Permanence = defaults.Permanence
	}
	if sp.Seed == ([4]uint32{}) {
		sp.Seed = defaults.Seed
	}

	if tm := modelConfig.TemporalMemory; tm != nil {
		tmDefaults := htm.DefaultTemporalMemoryConfig()
		if tm.CellsPerColumn == 0 {
			tm.CellsPerColumn = tmDefaults.CellsPerColumn
		}
		if tm.ActivationThreshold == 0 {
			tm.ActivationThreshold = tmDefaults.ActivationThreshold
		}
		if tm.MinThreshold == 0 {
			tm.MinThreshold = tmDefaults.MinThreshold
		}
		if tm.MaxNewSynapseCount == 0 {
			tm.MaxNewSynapseCount = tmDefaults.MaxNewSynapseCount
		}
		if tm.MaxSegmentsPerCell == 0 {
			tm.MaxSegmentsPerCell = tmDefaults.MaxSegmentsPerCell
		}
		if tm.MaxSynapsesPerSegment == 0 {
			tm.MaxSynapsesPerSegment = tmDefaults.MaxSynapsesPerSegment
		}
		if tm.InitialPermanence == 0 {
			tm.InitialPermanence = tmDefaults.InitialPermanence
		}
		if tm.ConnectedPermanence == 0 {
			tm.ConnectedPermanence = tmDefaults.ConnectedPermanence
		}
		if tm.Seed == ([4]uint32{}) {
			tm.Seed = tmDefaults.Seed
		}
	}

	if cls := modelConfig.Classifier; cls != nil {
		clsDefaults := htm.DefaultClassifierConfig()
		if len(cls.Steps) == 0 {
			cls.Steps = clsDefaults.Steps
		}
		if cls.Alpha == 0 {
			cls.Alpha = clsDefaults.Alpha
		}
		if cls.ActValueAlpha == 0 {
			cls.ActValueAlpha = clsDefaults.ActValueAlpha
		}
	}
}
