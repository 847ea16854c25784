package checkpoints

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ModelArtifact is an inference-only export of a single model: weights and
// provenance, no optimizer state. It is deliberately a different format from
// Snapshot — exported models are not resumable training state.
type ModelArtifact struct {
	Kind     string         `json:"kind"` // "generator" or "discriminator"
	Weights  []WeightTensor `json:"weights"`
	Metadata Metadata       `json:"metadata"`
}

// ExportModels writes the generator (and optionally the discriminator) as
// standalone model artifacts under dir.
func ExportModels(dir string, generator, discriminator []WeightTensor, saveDiscriminator bool) error {
	if dir == "" {
		return errors.New("checkpoints: export directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "checkpoints: creating export directory")
	}

	gen := ModelArtifact{
		Kind:     "generator",
		Weights:  generator,
		Metadata: defaultMetadata(),
	}
	if err := writeArtifact(filepath.Join(dir, "generator_model.json"), &gen); err != nil {
		return err
	}

	if !saveDiscriminator {
		return nil
	}
	disc := ModelArtifact{
		Kind:     "discriminator",
		Weights:  discriminator,
		Metadata: defaultMetadata(),
	}
	return writeArtifact(filepath.Join(dir, "discriminator_model.json"), &disc)
}

// LoadModelArtifact reads a previously exported model artifact.
func LoadModelArtifact(path string) (*ModelArtifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "checkpoints: opening model artifact")
	}
	defer f.Close()

	var artifact ModelArtifact
	if err := json.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, errors.Wrap(err, "checkpoints: decoding model artifact")
	}
	return &artifact, nil
}

func writeArtifact(path string, artifact *ModelArtifact) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrap(err, "checkpoints: creating temp file")
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "checkpoints: encoding %s artifact", artifact.Kind)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "checkpoints: closing temp file")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "checkpoints: committing %s artifact", artifact.Kind)
}
