package training

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tsawler/go-gan/checkpoints"
	"github.com/tsawler/go-gan/samples"
	"github.com/tsawler/go-gan/tensor"
)

// Config configures a training Loop. It is validated once at construction
// and every output directory is materialized before the first write.
type Config struct {
	CheckpointDir string // resumable snapshots, required
	SampleDir     string // per-epoch sample grids, required unless Renderer is set
	LogDir        string // end-of-run metrics report, optional

	CheckpointEvery int // checkpoint cadence in epochs, default 5
	MaxCheckpoints  int // retention bound, default checkpoints.DefaultMaxKeep
	NoiseDim        int // generator noise width, default 100

	// OutputMin/OutputMax define the range generator output is unscaled
	// into for sample grids. Defaults to [0, 1].
	OutputMin float32
	OutputMax float32

	// FixedNoise, when set, is reused for every emission so grids show
	// progression on identical inputs. Otherwise fresh noise is drawn each
	// epoch. Must be [samples.GridSize, NoiseDim].
	FixedNoise *tensor.Matrix

	// ForceFinalCheckpoint takes a checkpoint at the last epoch even when
	// it misses the cadence boundary.
	ForceFinalCheckpoint bool

	// Renderer overrides the default PNG grid renderer.
	Renderer samples.GridRenderer

	Rand   *rand.Rand
	Logger *zap.Logger
}

// DefaultConfig returns a Config with the standard cadence, retention, and
// noise settings under the given output root.
func DefaultConfig(root string) Config {
	return Config{
		CheckpointDir:   filepath.Join(root, "checkpoints"),
		SampleDir:       filepath.Join(root, "generated"),
		LogDir:          filepath.Join(root, "logs"),
		CheckpointEvery: 5,
		MaxCheckpoints:  checkpoints.DefaultMaxKeep,
		NoiseDim:        100,
		OutputMin:       0,
		OutputMax:       1,
	}
}

// Loop is the adversarial training-loop controller. It owns the epoch/step
// state machine, the metric accumulator, the training history, and the
// checkpoint/sample schedule. The GAN owns all trainable state.
type Loop struct {
	gan     GAN
	cfg     Config
	store   *checkpoints.Store
	emitter *samples.Emitter
	acc     *MetricAccumulator
	history TrainingHistory
	rng     *rand.Rand
	logger  *zap.Logger
}

// NewLoop validates cfg, materializes the output directories, and returns a
// ready controller. Configuration problems are caller bugs and fail here,
// never mid-run.
func NewLoop(gan GAN, cfg Config) (*Loop, error) {
	if gan == nil {
		return nil, errors.New("training: nil GAN")
	}
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 5
	}
	if cfg.NoiseDim <= 0 {
		cfg.NoiseDim = 100
	}
	if cfg.OutputMin == 0 && cfg.OutputMax == 0 {
		cfg.OutputMax = 1
	}
	if cfg.OutputMax <= cfg.OutputMin {
		return nil, errors.Errorf("training: invalid output range [%g, %g]", cfg.OutputMin, cfg.OutputMax)
	}
	if cfg.FixedNoise != nil &&
		(cfg.FixedNoise.Rows != samples.GridSize || cfg.FixedNoise.Cols != cfg.NoiseDim) {
		return nil, errors.Errorf("training: fixed noise must be [%d, %d], got [%d, %d]",
			samples.GridSize, cfg.NoiseDim, cfg.FixedNoise.Rows, cfg.FixedNoise.Cols)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	store, err := checkpoints.NewStore(cfg.CheckpointDir, cfg.MaxCheckpoints)
	if err != nil {
		return nil, err
	}

	renderer := cfg.Renderer
	if renderer == nil {
		renderer, err = samples.NewPNGGridRenderer(cfg.SampleDir, cfg.OutputMin, cfg.OutputMax)
		if err != nil {
			return nil, err
		}
	}
	emitter, err := samples.NewEmitter(renderer, cfg.OutputMin, cfg.OutputMax, cfg.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, errors.Wrap(err, "training: creating log directory")
		}
	}

	return &Loop{
		gan:     gan,
		cfg:     cfg,
		store:   store,
		emitter: emitter,
		acc:     NewMetricAccumulator(),
		rng:     cfg.Rand,
		logger:  cfg.Logger,
	}, nil
}

// History returns the per-epoch summaries accumulated so far.
func (l *Loop) History() TrainingHistory {
	return l.history
}

// Store exposes the checkpoint store, e.g. for inspection after a run.
func (l *Loop) Store() *checkpoints.Store {
	return l.store
}

// Resume restores the most recent checkpoint into the GAN and returns its
// epoch tag. checkpoints.ErrNotFound means no checkpoint exists; the caller
// decides whether that is fatal.
func (l *Loop) Resume() (int, error) {
	state, epoch, err := l.store.RestoreLatest()
	if err != nil {
		return 0, err
	}
	if err := l.gan.RestoreState(state); err != nil {
		return 0, errors.Wrapf(err, "training: restoring state from epoch %d", epoch)
	}
	l.logger.Info("resumed from checkpoint", zap.Int("epoch", epoch))
	return epoch, nil
}

// ExportModels writes the generator (and optionally the discriminator) as
// inference-only artifacts, independent of the resumable snapshot store.
func (l *Loop) ExportModels(outputDir string, saveDiscriminator bool) error {
	state, err := l.gan.State()
	if err != nil {
		return errors.Wrap(err, "training: capturing state for export")
	}
	return checkpoints.ExportModels(outputDir, state.Generator, state.Discriminator, saveDiscriminator)
}

// Run drives epochs full passes over source. Per epoch it resets the
// accumulator, pulls source.Batches() batches through the GAN's TrainStep,
// appends the epoch summary to the history, emits a sample grid, and
// checkpoints on cadence. After the last epoch it performs one final forced
// emission tagged with the final epoch, then writes the metrics report if a
// log directory is configured.
//
// epochs == 0 is a no-op. Cancellation via ctx is checked once per batch
// and at each epoch boundary; a cancelled epoch's partial accumulator is
// discarded, never committed to the history.
func (l *Loop) Run(ctx context.Context, source BatchSource, epochs int) (TrainingHistory, error) {
	if source == nil {
		return l.history, errors.New("training: nil batch source")
	}
	if epochs < 0 {
		return l.history, errors.Errorf("training: negative epoch count %d", epochs)
	}
	if epochs > 0 && source.Batches() <= 0 {
		return l.history, errors.New("training: batch source declares no batches")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return l.history, err
		}
		start := time.Now()
		l.acc.Begin()

		for b := 0; b < source.Batches(); b++ {
			if err := ctx.Err(); err != nil {
				return l.history, err
			}
			batch, err := source.Next()
			if err != nil {
				return l.history, errors.Wrapf(err, "training: epoch %d, batch %d", epoch, b)
			}
			result, err := l.gan.TrainStep(batch, l.cfg.NoiseDim)
			if err != nil {
				return l.history, errors.Wrapf(err, "training: train step at epoch %d, batch %d", epoch, b)
			}
			if err := l.acc.Observe(result); err != nil {
				return l.history, err
			}
		}

		m := l.acc.EndEpoch()
		m.Epoch = epoch
		l.history = append(l.history, m)

		l.logger.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("gen_loss", m.GenLoss),
			zap.Float64("disc_loss", m.DiscLoss),
			zap.Float64("disc_accuracy", m.DiscAccuracy),
			zap.Duration("elapsed", time.Since(start)))

		if err := l.emitter.Emit(l.gan.Generator(), epoch, l.epochNoise()); err != nil {
			return l.history, err
		}

		if epoch%l.cfg.CheckpointEvery == 0 {
			l.saveCheckpoint(epoch)
		}
	}

	if epochs > 0 {
		if err := l.finalEmission(epochs); err != nil {
			return l.history, err
		}
		if l.cfg.ForceFinalCheckpoint && epochs%l.cfg.CheckpointEvery != 0 {
			l.saveCheckpoint(epochs)
		}
		if l.cfg.LogDir != "" {
			path := filepath.Join(l.cfg.LogDir, "training_metrics.png")
			if err := WriteMetricsReport(path, l.history); err != nil {
				return l.history, err
			}
			l.logger.Info("metrics report written", zap.String("path", path))
		}
	}

	return l.history, nil
}

// epochNoise picks the grid input for an emission: the configured fixed
// vector when present, otherwise a fresh draw. This is the only place
// randomness enters the controller.
func (l *Loop) epochNoise() *tensor.Matrix {
	if l.cfg.FixedNoise != nil {
		return l.cfg.FixedNoise
	}
	return tensor.RandNormal(samples.GridSize, l.cfg.NoiseDim, l.rng)
}

// finalEmission guarantees the very last model state is always visually
// represented, even when the last epoch already emitted. With fixed noise
// the final grid repeats the fixed input; otherwise it is a deliberately
// fresh draw, not a replay of the last epoch's noise.
func (l *Loop) finalEmission(finalEpoch int) error {
	return l.emitter.Emit(l.gan.Generator(), finalEpoch, l.epochNoise())
}

// saveCheckpoint captures and persists trainable state. A failed save is
// logged and training continues; it never pretends to have succeeded and
// never disturbs previously retained snapshots.
func (l *Loop) saveCheckpoint(epoch int) {
	state, err := l.gan.State()
	if err != nil {
		l.logger.Error("checkpoint skipped: capturing trainable state failed",
			zap.Int("epoch", epoch), zap.Error(err))
		return
	}
	if err := l.store.Save(state, epoch); err != nil {
		l.logger.Error("checkpoint save failed",
			zap.Int("epoch", epoch), zap.Error(err))
		return
	}
	l.logger.Info("checkpoint saved", zap.Int("epoch", epoch))
}
