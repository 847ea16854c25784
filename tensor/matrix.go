package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Matrix is a dense 2D float32 matrix in row-major order. It is the sample
// type flowing through the training core: one spectrogram-like frame, or a
// [batch, noiseDim] noise block.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// New creates a Matrix backed by the provided data slice. The slice is used
// directly, not copied.
func New(rows, cols int, data []float32) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid shape [%d, %d]: dimensions must be positive", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("data length %d does not match shape [%d, %d]", len(data), rows, cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// Zeros creates a zero-filled Matrix.
func Zeros(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// RandNormal creates a Matrix filled with standard-normal samples drawn from
// rng. Used for generator noise input.
func RandNormal(rows, cols int, rng *rand.Rand) *Matrix {
	m := Zeros(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32(rng.NormFloat64())
	}
	return m
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(shape=[%d, %d])", m.Rows, m.Cols)
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set assigns the element at row i, column j.
func (m *Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Row returns row i as a slice aliasing the matrix data.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	out := Zeros(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// SameShape reports whether two matrices have identical dimensions.
func (m *Matrix) SameShape(other *Matrix) bool {
	return m.Rows == other.Rows && m.Cols == other.Cols
}

// MinMax scans the matrix and returns its minimum and maximum elements.
func (m *Matrix) MinMax() (min, max float32) {
	min = float32(math.Inf(1))
	max = float32(math.Inf(-1))
	for _, v := range m.Data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Rot90 returns a new matrix rotated counter-clockwise by k quarter turns.
// Odd k swaps the dimensions.
func (m *Matrix) Rot90(k int) *Matrix {
	k = ((k % 4) + 4) % 4
	switch k {
	case 0:
		return m.Clone()
	case 2:
		out := Zeros(m.Rows, m.Cols)
		n := len(m.Data)
		for i, v := range m.Data {
			out.Data[n-1-i] = v
		}
		return out
	default:
		out := Zeros(m.Cols, m.Rows)
		for i := 0; i < m.Rows; i++ {
			for j := 0; j < m.Cols; j++ {
				if k == 1 {
					// column j becomes row (Cols-1-j)
					out.Set(m.Cols-1-j, i, m.At(i, j))
				} else {
					out.Set(j, m.Rows-1-i, m.At(i, j))
				}
			}
		}
		return out
	}
}
