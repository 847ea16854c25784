package checkpoints

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(tag float32) *TrainableState {
	return &TrainableState{
		Generator: []WeightTensor{
			{Name: "dense1.weight", Shape: []int{4, 8}, Data: []float32{tag, tag + 1}, Layer: "dense1", Type: "weight"},
		},
		Discriminator: []WeightTensor{
			{Name: "conv1.weight", Shape: []int{3, 3}, Data: []float32{tag * 2}, Layer: "conv1", Type: "weight"},
		},
		GenOptimizer: &OptimizerState{
			Type:       "Adam",
			Parameters: map[string]float64{"learning_rate": 0.001, "beta1": 0.9},
			StateData: []OptimizerTensor{
				{Name: "dense1.weight.m", Shape: []int{4, 8}, Data: []float32{0.1}, StateType: "m"},
			},
		},
		DiscOptimizer: &OptimizerState{Type: "Adam"},
	}
}

func TestStoreSaveRestoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	require.NoError(t, store.Save(testState(1), 5))

	state, epoch, err := store.RestoreLatest()
	require.NoError(t, err)
	assert.Equal(t, 5, epoch)
	assert.Equal(t, []float32{1, 2}, state.Generator[0].Data)
	assert.Equal(t, "Adam", state.GenOptimizer.Type)
	assert.Equal(t, 0.9, state.GenOptimizer.Parameters["beta1"])
	assert.Equal(t, "m", state.GenOptimizer.StateData[0].StateType)
}

func TestStoreRetentionEvictsOldest(t *testing.T) {
	store, err := NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	for epoch := 1; epoch <= 6; epoch++ {
		require.NoError(t, store.Save(testState(float32(epoch)), epoch))
	}

	epochs, err := store.Epochs()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6}, epochs)

	_, err = store.Restore(1)
	assert.Equal(t, ErrNotFound, errors.Cause(err))

	state, latest, err := store.RestoreLatest()
	require.NoError(t, err)
	assert.Equal(t, 6, latest)
	assert.Equal(t, []float32{6, 7}, state.Generator[0].Data)
}

func TestRestoreLatestEmptyStore(t *testing.T) {
	store, err := NewStore(t.TempDir(), 0)
	require.NoError(t, err)

	_, _, err = store.RestoreLatest()
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestRestoreMissingEpoch(t *testing.T) {
	store, err := NewStore(t.TempDir(), 4)
	require.NoError(t, err)
	require.NoError(t, store.Save(testState(1), 3))

	_, err = store.Restore(7)
	require.Error(t, err)
	assert.Equal(t, ErrNotFound, errors.Cause(err))
	assert.Contains(t, err.Error(), "epoch 7")
}

func TestNewStoreRequiresDir(t *testing.T) {
	_, err := NewStore("", 4)
	assert.Error(t, err)
}

func TestStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 4)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ckpt-abc.json"), []byte("x"), 0o644))
	require.NoError(t, store.Save(testState(1), 2))

	epochs, err := store.Epochs()
	require.NoError(t, err)
	assert.Equal(t, []int{2}, epochs)
}

func TestStoreLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 4)
	require.NoError(t, err)
	require.NoError(t, store.Save(testState(1), 1))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ckpt-0001.json", entries[0].Name())
}
