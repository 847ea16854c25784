package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/go-gan/tensor"
)

func sliceSamples(t *testing.T, n int) []*tensor.Matrix {
	t.Helper()
	out := make([]*tensor.Matrix, n)
	for i := range out {
		m := tensor.Zeros(4, 4)
		m.Data[0] = float32(i)
		out[i] = m
	}
	return out
}

func TestSliceSourceBatching(t *testing.T) {
	src, err := NewSliceSource(sliceSamples(t, 10), nil, 4)
	require.NoError(t, err)

	// 10 samples at batch size 4: two full batches plus a short last one.
	assert.Equal(t, 3, src.Batches())

	b1, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, b1.Size())
	assert.Nil(t, b1.Labels)

	b2, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, b2.Size())

	b3, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, b3.Size())
}

func TestSliceSourceWrapsAround(t *testing.T) {
	src, err := NewSliceSource(sliceSamples(t, 4), nil, 2)
	require.NoError(t, err)

	first, err := src.Next()
	require.NoError(t, err)
	_, err = src.Next()
	require.NoError(t, err)

	// Third pull starts the next pass over the same data.
	again, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, first.Data[0].Data[0], again.Data[0].Data[0])
}

func TestSliceSourceLabels(t *testing.T) {
	labels := []int32{0, 1, 2, 3}
	src, err := NewSliceSource(sliceSamples(t, 4), labels, 3)
	require.NoError(t, err)

	b, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, b.Labels)
}

func TestSliceSourceValidation(t *testing.T) {
	samples := sliceSamples(t, 4)

	_, err := NewSliceSource(samples, nil, 0)
	assert.Error(t, err)

	_, err = NewSliceSource(nil, nil, 2)
	assert.Error(t, err)

	_, err = NewSliceSource(samples, []int32{1}, 2)
	assert.Error(t, err)

	mixed := append(sliceSamples(t, 2), tensor.Zeros(5, 4))
	_, err = NewSliceSource(mixed, nil, 2)
	assert.Error(t, err)
}
