package training

import "github.com/pkg/errors"

// EpochMetrics is one epoch's summary: mean losses and mean discriminator
// binary accuracy over the epoch's batches.
type EpochMetrics struct {
	Epoch        int
	GenLoss      float64
	DiscLoss     float64
	DiscAccuracy float64
	BatchCount   int
}

// TrainingHistory is the chronological, append-only sequence of per-epoch
// summaries kept for post-hoc reporting.
type TrainingHistory []EpochMetrics

// GenLosses returns the generator-loss series in epoch order.
func (h TrainingHistory) GenLosses() []float64 {
	out := make([]float64, len(h))
	for i, m := range h {
		out[i] = m.GenLoss
	}
	return out
}

// DiscLosses returns the discriminator-loss series in epoch order.
func (h TrainingHistory) DiscLosses() []float64 {
	out := make([]float64, len(h))
	for i, m := range h {
		out[i] = m.DiscLoss
	}
	return out
}

// DiscAccuracies returns the discriminator-accuracy series in epoch order.
func (h TrainingHistory) DiscAccuracies() []float64 {
	out := make([]float64, len(h))
	for i, m := range h {
		out[i] = m.DiscAccuracy
	}
	return out
}

type accumulatorState int

const (
	accumulating accumulatorState = iota
	reported
)

// meanTracker accumulates a running arithmetic mean.
type meanTracker struct {
	sum   float64
	count int
}

func (m *meanTracker) observe(v float64) {
	m.sum += v
	m.count++
}

func (m *meanTracker) mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// MetricAccumulator gathers per-batch scalars within one epoch. It is an
// explicit two-state machine: ACCUMULATING accepts observations, REPORTED
// (entered by EndEpoch) rejects them until Begin starts the next epoch. One
// accumulator is reused across all epochs of a run.
type MetricAccumulator struct {
	state        accumulatorState
	genLoss      meanTracker
	discLoss     meanTracker
	discAccuracy meanTracker
}

// NewMetricAccumulator returns an accumulator ready for its first epoch.
func NewMetricAccumulator() *MetricAccumulator {
	return &MetricAccumulator{state: accumulating}
}

// Begin resets all trackers and enters ACCUMULATING. Called at the start of
// every epoch.
func (a *MetricAccumulator) Begin() {
	a.genLoss = meanTracker{}
	a.discLoss = meanTracker{}
	a.discAccuracy = meanTracker{}
	a.state = accumulating
}

// Observe feeds one batch's StepResult into the running means. Observing
// after EndEpoch without an intervening Begin is a programmer error.
func (a *MetricAccumulator) Observe(r StepResult) error {
	if a.state != accumulating {
		return errors.New("training: observation after EndEpoch, call Begin first")
	}
	a.genLoss.observe(r.GenLoss)
	a.discLoss.observe(r.DiscLoss)
	a.discAccuracy.observe(r.DiscAccuracy)
	return nil
}

// EndEpoch reports the epoch summary and enters REPORTED. The summary's
// Epoch field is left for the caller to fill.
func (a *MetricAccumulator) EndEpoch() EpochMetrics {
	m := EpochMetrics{
		GenLoss:      a.genLoss.mean(),
		DiscLoss:     a.discLoss.mean(),
		DiscAccuracy: a.discAccuracy.mean(),
		BatchCount:   a.genLoss.count,
	}
	a.state = reported
	return m
}
