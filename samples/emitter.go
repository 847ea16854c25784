// Package samples turns generator output into fixed-size visual grids used
// to inspect training progress. The emitter decides how to build a grid,
// never when — scheduling belongs to the training loop.
package samples

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tsawler/go-gan/tensor"
	"github.com/tsawler/go-gan/transforms"
)

// GridSize is the fixed number of generator outputs per emitted grid.
const GridSize = 16

// Generator runs a trained (or training) generator in inference mode: no
// parameter updates, no gradient bookkeeping. noise is a
// [GridSize, noiseDim] block; one output matrix is produced per noise row.
type Generator interface {
	Generate(noise *tensor.Matrix) ([]*tensor.Matrix, error)
}

// SampleGrid is a fixed-count collection of generator outputs at a given
// point in training.
type SampleGrid struct {
	Epoch int
	Cells []*tensor.Matrix
}

// GridRenderer is the external collaborator that turns a SampleGrid into a
// displayable artifact.
type GridRenderer interface {
	RenderGrid(grid *SampleGrid) error
}

// Emitter produces sample grids from a generator. Generator output in the
// canonical [-1, 1] range is unscaled into [minVal, maxVal] before
// rendering.
type Emitter struct {
	renderer GridRenderer
	minVal   float32
	maxVal   float32
	logger   *zap.Logger
}

// NewEmitter creates an Emitter that hands grids to renderer, unscaling
// generator output into [minVal, maxVal].
func NewEmitter(renderer GridRenderer, minVal, maxVal float32, logger *zap.Logger) (*Emitter, error) {
	if renderer == nil {
		return nil, errors.New("samples: nil grid renderer")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{renderer: renderer, minVal: minVal, maxVal: maxVal, logger: logger}, nil
}

// Emit runs the generator on noise, unscales each output, and hands the
// resulting grid tagged with epoch to the renderer. noise must have exactly
// GridSize rows.
func (e *Emitter) Emit(g Generator, epoch int, noise *tensor.Matrix) error {
	if g == nil {
		return errors.New("samples: nil generator")
	}
	if noise == nil || noise.Rows != GridSize {
		return errors.Errorf("samples: noise must have %d rows", GridSize)
	}

	outputs, err := g.Generate(noise)
	if err != nil {
		return errors.Wrapf(err, "samples: generator inference at epoch %d", epoch)
	}
	if len(outputs) != GridSize {
		return errors.Errorf("samples: generator produced %d outputs, want %d", len(outputs), GridSize)
	}

	cells := make([]*tensor.Matrix, GridSize)
	for i, out := range outputs {
		cells[i] = transforms.Unscale(out, e.minVal, e.maxVal)
	}

	grid := &SampleGrid{Epoch: epoch, Cells: cells}
	if err := e.renderer.RenderGrid(grid); err != nil {
		return errors.Wrapf(err, "samples: rendering grid for epoch %d", epoch)
	}
	e.logger.Debug("sample grid emitted", zap.Int("epoch", epoch))
	return nil
}
