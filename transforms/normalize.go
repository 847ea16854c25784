// Package transforms contains the numeric preparation pipeline for
// spectrogram-like training data: range scaling into the generator's working
// range, per-row standardization, and the inverse mapping used when turning
// generator output back into inspectable samples.
package transforms

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tsawler/go-gan/tensor"
)

// ErrConstantInput is returned when range scaling is asked to map a matrix
// whose min and max coincide. The forward mapping would divide by zero;
// callers must guard constant-valued input themselves.
var ErrConstantInput = errors.New("transforms: constant-valued input, empirical range is degenerate")

// ErrZeroVariance is returned when row-wise normalization encounters a row
// with zero standard deviation.
var ErrZeroVariance = errors.New("transforms: zero-variance row")

// ScaleToRange maps m linearly from its own empirical [min, max] onto
// [newMin, newMax]. The input is not modified. The original min and max
// elements land exactly on newMin and newMax.
func ScaleToRange(m *tensor.Matrix, newMin, newMax float32) (*tensor.Matrix, error) {
	min, max := m.MinMax()
	if max == min {
		return nil, errors.Wrapf(ErrConstantInput, "all %d elements equal %g", len(m.Data), min)
	}

	span := float64(max) - float64(min)
	scale := (float64(newMax) - float64(newMin)) / span

	out := tensor.Zeros(m.Rows, m.Cols)
	for i, v := range m.Data {
		out.Data[i] = float32((float64(v)-float64(min))*scale + float64(newMin))
	}
	return out, nil
}

// NormalizeRows subtracts each row's mean and divides by its standard
// deviation (population std, matching the source pipeline). With clipStd the
// z-scored values are further divided by 3, a soft-clip that compresses
// near-Gaussian data into roughly [-1, 1].
func NormalizeRows(m *tensor.Matrix, clipStd bool) (*tensor.Matrix, error) {
	out := tensor.Zeros(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)

		var mean float64
		for _, v := range row {
			mean += float64(v)
		}
		mean /= float64(len(row))

		var variance float64
		for _, v := range row {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(len(row))
		std := math.Sqrt(variance)
		if std == 0 {
			return nil, errors.Wrapf(ErrZeroVariance, "row %d", i)
		}

		if clipStd {
			std *= 3
		}
		outRow := out.Row(i)
		for j, v := range row {
			outRow[j] = float32((float64(v) - mean) / std)
		}
	}
	return out, nil
}

// Unscale is the designated inverse of a forward mapping into the canonical
// [-1, 1] range: it recovers [0, 1] and then affine-maps onto
// [minVal, maxVal]. It is the inverse of ScaleToRange only for
// newMin=-1, newMax=1; the pair is asymmetric for any other range.
func Unscale(m *tensor.Matrix, minVal, maxVal float32) *tensor.Matrix {
	span := float64(maxVal) - float64(minVal)
	out := tensor.Zeros(m.Rows, m.Cols)
	for i, v := range m.Data {
		unit := (float64(v) + 1) / 2
		out.Data[i] = float32(unit*span + float64(minVal))
	}
	return out
}
