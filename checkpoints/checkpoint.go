// Package checkpoints persists and restores the trainable state of an
// adversarial model pair. Snapshots are resumable training state (weights
// plus optimizer state for both models); exported model artifacts are
// inference-only and use a separate, weights-only format.
package checkpoints

import "time"

// WeightTensor represents a model parameter tensor with its data.
type WeightTensor struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
	Layer string    `json:"layer"`
	Type  string    `json:"type"` // "weight", "bias", "gamma", "beta", etc.
}

// OptimizerState captures optimizer-specific state (momentum, variance, etc.)
// for one of the two optimizers.
type OptimizerState struct {
	Type       string             `json:"type"` // "SGD", "Adam", etc.
	Parameters map[string]float64 `json:"parameters,omitempty"`
	StateData  []OptimizerTensor  `json:"state_data,omitempty"`
}

// OptimizerTensor represents a single optimizer state tensor.
type OptimizerTensor struct {
	Name      string    `json:"name"`
	Shape     []int     `json:"shape"`
	Data      []float32 `json:"data"`
	StateType string    `json:"state_type"` // "momentum", "variance", "m", "v", etc.
}

// TrainableState is everything needed to resume adversarial training:
// both models' parameters and both optimizers' state.
type TrainableState struct {
	Generator     []WeightTensor  `json:"generator"`
	Discriminator []WeightTensor  `json:"discriminator"`
	GenOptimizer  *OptimizerState `json:"generator_optimizer,omitempty"`
	DiscOptimizer *OptimizerState `json:"discriminator_optimizer,omitempty"`
}

// Snapshot is an immutable TrainableState tagged with the epoch it was
// taken at.
type Snapshot struct {
	Epoch    int            `json:"epoch"`
	State    TrainableState `json:"state"`
	Metadata Metadata       `json:"metadata"`
}

// Metadata records provenance for a snapshot or exported model.
type Metadata struct {
	Version   string    `json:"version"`
	Framework string    `json:"framework"`
	CreatedAt time.Time `json:"created_at"`
}

func defaultMetadata() Metadata {
	return Metadata{
		Version:   "1.0.0",
		Framework: "go-gan",
		CreatedAt: time.Now(),
	}
}
