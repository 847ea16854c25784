package transforms

import "github.com/tsawler/go-gan/tensor"

// RotateBatch expands a batch with its 90/180/270 degree rotations and
// returns parallel rotation-class labels (0..3, quarter turns). The output
// holds the entire input batch at each angle in order, so the result is four
// times the input length. Used for rotation self-supervision pretraining of
// the discriminator.
func RotateBatch(batch []*tensor.Matrix) ([]*tensor.Matrix, []int32) {
	rotated := make([]*tensor.Matrix, 0, 4*len(batch))
	labels := make([]int32, 0, 4*len(batch))

	for k := 0; k < 4; k++ {
		for _, m := range batch {
			rotated = append(rotated, m.Rot90(k))
			labels = append(labels, int32(k))
		}
	}
	return rotated, labels
}
