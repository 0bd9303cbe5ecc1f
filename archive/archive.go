package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/tailored-agentic-units/rfp/orchestrate/state"
	"github.com/tailored-agentic-units/rfp/workflow"
)

const (
	bidsPrefix        = "bids/"
	checkpointsPrefix = "checkpoints/"
)

// Config holds archive initialization parameters.
type Config struct {
	Path string `json:"path,omitempty" yaml:"path"` // root directory; empty disables the archive
}

// New creates an Archive from configuration. Returns nil when Path is empty,
// indicating archiving is disabled.
func New(cfg Config) *Archive {
	if cfg.Path == "" {
		return nil
	}
	return NewArchive(NewFileStore(cfg.Path))
}

// Archive stores one indented JSON document per run, grouped by outcome:
// bids/<outcome>/<run-id>.json. It implements workflow.Sink.
type Archive struct {
	store Store
}

// NewArchive creates an Archive over store.
func NewArchive(store Store) *Archive {
	return &Archive{store: store}
}

func bidKey(outcome workflow.Outcome, runID string) string {
	return path.Join("bids", strings.ToLower(string(outcome)), runID+".json")
}

// Emit writes the bid document.
func (a *Archive) Emit(ctx context.Context, bid *workflow.ConsolidatedBid) error {
	data, err := json.MarshalIndent(bid, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bid: %w", err)
	}
	return a.store.Save(ctx, Entry{Key: bidKey(bid.Outcome, bid.RunID), Value: data})
}

// Bid finds and decodes the archived bid for a run under any outcome.
func (a *Archive) Bid(ctx context.Context, runID string) (*workflow.ConsolidatedBid, error) {
	keys, err := a.store.List(ctx, bidsPrefix)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if path.Base(key) != runID+".json" {
			continue
		}
		entries, err := a.store.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		var bid workflow.ConsolidatedBid
		if err := json.Unmarshal(entries[0].Value, &bid); err != nil {
			return nil, fmt.Errorf("decode bid %s: %w", runID, err)
		}
		return &bid, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, runID)
}

// RunIDs lists archived runs with the given outcome, or all runs when
// outcome is empty.
func (a *Archive) RunIDs(ctx context.Context, outcome workflow.Outcome) ([]string, error) {
	prefix := bidsPrefix
	if outcome != "" {
		prefix += strings.ToLower(string(outcome)) + "/"
	}

	keys, err := a.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if name, ok := strings.CutSuffix(path.Base(key), ".json"); ok {
			ids = append(ids, name)
		}
	}
	return ids, nil
}

// Checkpoints returns a state.CheckpointStore that keeps checkpoints beside
// the bids under checkpoints/<run-id>.json.
func (a *Archive) Checkpoints() state.CheckpointStore {
	return &checkpointStore{store: a.store}
}

type checkpointStore struct {
	store Store
}

func checkpointKey(runID string) string {
	return checkpointsPrefix + runID + ".json"
}

func (c *checkpointStore) Save(cp state.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	return c.store.Save(context.Background(), Entry{Key: checkpointKey(cp.RunID), Value: data})
}

func (c *checkpointStore) Load(runID string) (state.Checkpoint, error) {
	entries, err := c.store.Load(context.Background(), checkpointKey(runID))
	if errors.Is(err, ErrKeyNotFound) {
		return state.Checkpoint{}, fmt.Errorf("%w: %s", state.ErrCheckpointNotFound, runID)
	}
	if err != nil {
		return state.Checkpoint{}, err
	}

	var cp state.Checkpoint
	if err := json.Unmarshal(entries[0].Value, &cp); err != nil {
		return state.Checkpoint{}, fmt.Errorf("decode checkpoint %s: %w", runID, err)
	}
	return cp, nil
}

func (c *checkpointStore) Delete(runID string) error {
	return c.store.Delete(context.Background(), checkpointKey(runID))
}

func (c *checkpointStore) List() ([]string, error) {
	keys, err := c.store.List(context.Background(), checkpointsPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if name, ok := strings.CutSuffix(path.Base(key), ".json"); ok {
			ids = append(ids, name)
		}
	}
	return ids, nil
}

var _ workflow.Sink = (*Archive)(nil)
