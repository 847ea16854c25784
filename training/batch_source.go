package training

import (
	"github.com/pkg/errors"

	"github.com/tsawler/go-gan/tensor"
)

// Batch is an ordered set of fixed-shape samples plus an optional parallel
// label slice. Labels may be unused by a given model hook.
type Batch struct {
	Data   []*tensor.Matrix
	Labels []int32
}

// Size returns the number of samples in the batch.
func (b *Batch) Size() int {
	return len(b.Data)
}

// BatchSource feeds the training loop. Batches declares how many pulls make
// one epoch; Next may block on I/O or on-the-fly augmentation. Sources are
// expected to keep producing across epochs.
type BatchSource interface {
	Batches() int
	Next() (*Batch, error)
}

// SliceSource is an in-memory BatchSource over a fixed sample slice. It
// cycles endlessly: after the last batch of an epoch the next pull starts
// over. The final batch of a pass may be short.
type SliceSource struct {
	batches []*Batch
	pos     int
}

// NewSliceSource partitions samples (and labels, when non-nil) into batches
// of batchSize. All samples must share one shape.
func NewSliceSource(data []*tensor.Matrix, labels []int32, batchSize int) (*SliceSource, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("training: batch size must be positive, got %d", batchSize)
	}
	if len(data) == 0 {
		return nil, errors.New("training: empty sample slice")
	}
	if labels != nil && len(labels) != len(data) {
		return nil, errors.Errorf("training: %d labels for %d samples", len(labels), len(data))
	}
	for i, m := range data {
		if !m.SameShape(data[0]) {
			return nil, errors.Errorf("training: sample %d shape [%d, %d] differs from [%d, %d]",
				i, m.Rows, m.Cols, data[0].Rows, data[0].Cols)
		}
	}

	var batches []*Batch
	for start := 0; start < len(data); start += batchSize {
		end := start + batchSize
		if end > len(data) {
			end = len(data)
		}
		b := &Batch{Data: data[start:end]}
		if labels != nil {
			b.Labels = labels[start:end]
		}
		batches = append(batches, b)
	}
	return &SliceSource{batches: batches}, nil
}

// Batches returns the number of batches per epoch.
func (s *SliceSource) Batches() int {
	return len(s.batches)
}

// Next returns the next batch, wrapping around at the end of a pass.
func (s *SliceSource) Next() (*Batch, error) {
	b := s.batches[s.pos]
	s.pos = (s.pos + 1) % len(s.batches)
	return b, nil
}
