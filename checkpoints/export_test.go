package checkpoints

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportModelsBoth(t *testing.T) {
	dir := t.TempDir()
	gen := []WeightTensor{{Name: "g.weight", Shape: []int{2}, Data: []float32{1, 2}, Layer: "g", Type: "weight"}}
	disc := []WeightTensor{{Name: "d.weight", Shape: []int{1}, Data: []float32{3}, Layer: "d", Type: "weight"}}

	require.NoError(t, ExportModels(dir, gen, disc, true))

	artifact, err := LoadModelArtifact(filepath.Join(dir, "generator_model.json"))
	require.NoError(t, err)
	assert.Equal(t, "generator", artifact.Kind)
	assert.Equal(t, gen, artifact.Weights)
	assert.Equal(t, "go-gan", artifact.Metadata.Framework)

	artifact, err = LoadModelArtifact(filepath.Join(dir, "discriminator_model.json"))
	require.NoError(t, err)
	assert.Equal(t, "discriminator", artifact.Kind)
	assert.Equal(t, disc, artifact.Weights)
}

func TestExportModelsGeneratorOnly(t *testing.T) {
	dir := t.TempDir()
	gen := []WeightTensor{{Name: "g.weight", Shape: []int{1}, Data: []float32{1}, Layer: "g", Type: "weight"}}

	require.NoError(t, ExportModels(dir, gen, nil, false))

	_, err := os.Stat(filepath.Join(dir, "generator_model.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "discriminator_model.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportedArtifactIsNotASnapshot(t *testing.T) {
	// An exported model must never be readable as resumable training state.
	dir := t.TempDir()
	gen := []WeightTensor{{Name: "g.weight", Shape: []int{1}, Data: []float32{1}, Layer: "g", Type: "weight"}}
	require.NoError(t, ExportModels(dir, gen, nil, false))

	artifact, err := LoadModelArtifact(filepath.Join(dir, "generator_model.json"))
	require.NoError(t, err)
	assert.Equal(t, "generator", artifact.Kind)

	store, err := NewStore(dir, 4)
	require.NoError(t, err)
	epochs, err := store.Epochs()
	require.NoError(t, err)
	assert.Empty(t, epochs)
}
