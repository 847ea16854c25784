package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorReportsArithmeticMean(t *testing.T) {
	acc := NewMetricAccumulator()
	acc.Begin()

	values := []float64{1, 2, 3, 4}
	for _, v := range values {
		require.NoError(t, acc.Observe(StepResult{GenLoss: v, DiscLoss: v * 2, DiscAccuracy: 0.5}))
	}

	m := acc.EndEpoch()
	assert.Equal(t, 2.5, m.GenLoss)
	assert.Equal(t, 5.0, m.DiscLoss)
	assert.Equal(t, 0.5, m.DiscAccuracy)
	assert.Equal(t, 4, m.BatchCount)
}

func TestAccumulatorRejectsObservationAfterEndEpoch(t *testing.T) {
	acc := NewMetricAccumulator()
	acc.Begin()
	require.NoError(t, acc.Observe(StepResult{GenLoss: 1}))

	acc.EndEpoch()
	assert.Error(t, acc.Observe(StepResult{GenLoss: 2}))
}

func TestAccumulatorBeginStartsFresh(t *testing.T) {
	acc := NewMetricAccumulator()
	acc.Begin()
	require.NoError(t, acc.Observe(StepResult{GenLoss: 10, DiscLoss: 10, DiscAccuracy: 1}))
	acc.EndEpoch()

	// Same accumulator value, next epoch: history is empty again.
	acc.Begin()
	require.NoError(t, acc.Observe(StepResult{GenLoss: 2, DiscLoss: 4, DiscAccuracy: 0.25}))

	m := acc.EndEpoch()
	assert.Equal(t, 2.0, m.GenLoss)
	assert.Equal(t, 4.0, m.DiscLoss)
	assert.Equal(t, 0.25, m.DiscAccuracy)
	assert.Equal(t, 1, m.BatchCount)
}

func TestAccumulatorEmptyEpoch(t *testing.T) {
	acc := NewMetricAccumulator()
	acc.Begin()

	m := acc.EndEpoch()
	assert.Zero(t, m.GenLoss)
	assert.Zero(t, m.DiscLoss)
	assert.Zero(t, m.DiscAccuracy)
	assert.Zero(t, m.BatchCount)
}

func TestTrainingHistorySeries(t *testing.T) {
	h := TrainingHistory{
		{Epoch: 1, GenLoss: 1, DiscLoss: 2, DiscAccuracy: 0.5},
		{Epoch: 2, GenLoss: 3, DiscLoss: 4, DiscAccuracy: 0.75},
	}

	assert.Equal(t, []float64{1, 3}, h.GenLosses())
	assert.Equal(t, []float64{2, 4}, h.DiscLosses())
	assert.Equal(t, []float64{0.5, 0.75}, h.DiscAccuracies())
}
