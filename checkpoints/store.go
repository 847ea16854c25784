package checkpoints

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a restore is attempted against an empty store
// or a missing epoch tag. Callers may treat it as "start from scratch".
var ErrNotFound = errors.New("checkpoints: no checkpoint found")

// DefaultMaxKeep is the default retention bound for saved snapshots.
const DefaultMaxKeep = 4

const (
	snapshotPrefix = "ckpt-"
	snapshotSuffix = ".json"
)

// Store saves TrainableState snapshots tagged by epoch under a single
// directory, keeping at most maxKeep of them. The oldest snapshot by epoch
// number is evicted first. Writes go through a temp file and rename, so a
// crash mid-write never leaves a readable-but-corrupt newest snapshot.
type Store struct {
	dir     string
	maxKeep int
}

// NewStore creates (if needed) the snapshot directory and returns a Store.
// maxKeep <= 0 selects DefaultMaxKeep.
func NewStore(dir string, maxKeep int) (*Store, error) {
	if dir == "" {
		return nil, errors.New("checkpoints: store directory must not be empty")
	}
	if maxKeep <= 0 {
		maxKeep = DefaultMaxKeep
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "checkpoints: creating store directory")
	}
	return &Store{dir: dir, maxKeep: maxKeep}, nil
}

// Dir returns the directory snapshots are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes a snapshot of state tagged with epoch, then evicts the oldest
// snapshots beyond the retention bound. A failed write leaves previously
// retained snapshots untouched.
func (s *Store) Save(state *TrainableState, epoch int) error {
	if state == nil {
		return errors.New("checkpoints: nil trainable state")
	}

	snap := Snapshot{
		Epoch:    epoch,
		State:    *state,
		Metadata: defaultMetadata(),
	}

	final := s.path(epoch)
	tmp, err := os.CreateTemp(s.dir, snapshotPrefix+"*.tmp")
	if err != nil {
		return errors.Wrap(err, "checkpoints: creating temp file")
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(&snap); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "checkpoints: encoding snapshot for epoch %d", epoch)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "checkpoints: closing temp file")
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return errors.Wrapf(err, "checkpoints: committing snapshot for epoch %d", epoch)
	}

	return s.evict()
}

// RestoreLatest loads the snapshot with the highest epoch tag. Returns
// ErrNotFound on an empty store.
func (s *Store) RestoreLatest() (*TrainableState, int, error) {
	epochs, err := s.Epochs()
	if err != nil {
		return nil, 0, err
	}
	if len(epochs) == 0 {
		return nil, 0, ErrNotFound
	}

	latest := epochs[len(epochs)-1]
	state, err := s.Restore(latest)
	if err != nil {
		return nil, 0, err
	}
	return state, latest, nil
}

// Restore loads the snapshot tagged with the given epoch. Returns
// ErrNotFound if no such tag exists.
func (s *Store) Restore(epoch int) (*TrainableState, error) {
	f, err := os.Open(s.path(epoch))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "epoch %d", epoch)
		}
		return nil, errors.Wrapf(err, "checkpoints: opening snapshot for epoch %d", epoch)
	}
	defer f.Close()

	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, errors.Wrapf(err, "checkpoints: decoding snapshot for epoch %d", epoch)
	}
	return &snap.State, nil
}

// Epochs returns the epoch tags of all retained snapshots in ascending
// order.
func (s *Store) Epochs() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "checkpoints: listing store directory")
	}

	var epochs []int
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		tag := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)
		epoch, err := strconv.Atoi(tag)
		if err != nil {
			continue // not a snapshot file
		}
		epochs = append(epochs, epoch)
	}
	sort.Ints(epochs)
	return epochs, nil
}

func (s *Store) path(epoch int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%04d%s", snapshotPrefix, epoch, snapshotSuffix))
}

func (s *Store) evict() error {
	epochs, err := s.Epochs()
	if err != nil {
		return err
	}
	for len(epochs) > s.maxKeep {
		if err := os.Remove(s.path(epochs[0])); err != nil {
			return errors.Wrapf(err, "checkpoints: evicting snapshot for epoch %d", epochs[0])
		}
		epochs = epochs[1:]
	}
	return nil
}
