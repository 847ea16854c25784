// Package training drives adversarial training: the epoch/step loop, metric
// accounting, checkpoint cadence, and sample-grid scheduling. The concrete
// generator/discriminator architectures, loss mathematics, and optimizer
// update rules live behind the GAN interface.
package training

import (
	"github.com/pkg/errors"

	"github.com/tsawler/go-gan/checkpoints"
	"github.com/tsawler/go-gan/samples"
	"github.com/tsawler/go-gan/tensor"
)

// ErrNotImplemented is returned by BaseGAN hook methods that a concrete
// model failed to override. It is a programmer error, surfaced on first use
// rather than swallowed.
var ErrNotImplemented = errors.New("training: model hook not implemented")

// StepResult carries the scalar signals one train step feeds back to the
// loop's metric accounting.
type StepResult struct {
	GenLoss      float64
	DiscLoss     float64
	DiscAccuracy float64
}

// GAN is the model hook interface the loop drives. A concrete GAN owns its
// generator, discriminator, and both optimizers; the loop owns scheduling
// and never mutates trainable state directly.
type GAN interface {
	// GeneratorLoss computes the generator loss from discriminator output on
	// fake samples.
	GeneratorLoss(fakeOutput *tensor.Matrix) (float64, error)

	// DiscriminatorLoss computes the discriminator loss from its output on
	// real and fake samples.
	DiscriminatorLoss(realOutput, fakeOutput *tensor.Matrix) (float64, error)

	// TrainStep performs one adversarial update on a batch and reports the
	// resulting scalars.
	TrainStep(batch *Batch, noiseDim int) (StepResult, error)

	// Generator exposes the generator for inference-mode sample emission.
	Generator() samples.Generator

	// State captures a snapshot of all trainable state for checkpointing.
	State() (*checkpoints.TrainableState, error)

	// RestoreState replaces all trainable state from a snapshot.
	RestoreState(state *checkpoints.TrainableState) error
}

// BaseGAN is a convenience embedding for partial GAN implementations. Every
// hook returns ErrNotImplemented so a missing override fails loudly instead
// of training silently wrong.
type BaseGAN struct{}

func (BaseGAN) GeneratorLoss(*tensor.Matrix) (float64, error) {
	return 0, errors.Wrap(ErrNotImplemented, "GeneratorLoss")
}

func (BaseGAN) DiscriminatorLoss(_, _ *tensor.Matrix) (float64, error) {
	return 0, errors.Wrap(ErrNotImplemented, "DiscriminatorLoss")
}

func (BaseGAN) TrainStep(*Batch, int) (StepResult, error) {
	return StepResult{}, errors.Wrap(ErrNotImplemented, "TrainStep")
}

func (BaseGAN) State() (*checkpoints.TrainableState, error) {
	return nil, errors.Wrap(ErrNotImplemented, "State")
}

func (BaseGAN) RestoreState(*checkpoints.TrainableState) error {
	return errors.Wrap(ErrNotImplemented, "RestoreState")
}
