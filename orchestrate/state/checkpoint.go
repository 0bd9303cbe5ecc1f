package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrCheckpointNotFound is returned by stores when no checkpoint exists for
// a run.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Checkpoint is an encoded state snapshot taken after a node completed.
type Checkpoint struct {
	RunID     string    `json:"run_id"`
	Node      string    `json:"node"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// Encode serializes state for a checkpoint.
func Encode[S any](s S) ([]byte, error) {
	return json.Marshal(s)
}

// Decode restores state from checkpoint data. S may be a pointer type, in
// which case a new value is allocated.
func Decode[S any](data []byte) (S, error) {
	var s S
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// CheckpointStore provides persistence for run state during execution.
//
// Checkpoint lifecycle:
//  1. Graph execution saves a Checkpoint at configured intervals via Save
//  2. On successful completion, checkpoints are deleted (unless Preserve=true)
//  3. On failure, checkpoints remain available for Resume
//  4. Resume loads the checkpoint and continues from the next node
//
// Implementations must be safe for concurrent graph executions.
type CheckpointStore interface {
	// Save persists a checkpoint, replacing any existing one for the RunID.
	Save(cp Checkpoint) error

	// Load retrieves the checkpoint for runID. Returns an error wrapping
	// ErrCheckpointNotFound if none exists.
	Load(runID string) (Checkpoint, error)

	// Delete removes the checkpoint for runID. No error if it doesn't exist.
	Delete(runID string) error

	// List returns all RunIDs with stored checkpoints.
	List() ([]string, error)
}

// memoryCheckpointStore keeps checkpoints in process memory. Checkpoints are
// lost when the process terminates.
type memoryCheckpointStore struct {
	checkpoints map[string]Checkpoint
	mu          sync.RWMutex
}

// NewMemoryCheckpointStore creates a CheckpointStore with in-memory storage.
//
// A shared instance is registered by default as "memory":
//
//	cfg := config.DefaultGraphConfig("workflow")
//	cfg.Checkpoint.Store = "memory"
//	cfg.Checkpoint.Interval = 1
func NewMemoryCheckpointStore() CheckpointStore {
	return &memoryCheckpointStore{
		checkpoints: make(map[string]Checkpoint),
	}
}

func (m *memoryCheckpointStore) Save(cp Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp.Data = slices.Clone(cp.Data)
	m.checkpoints[cp.RunID] = cp
	return nil
}

func (m *memoryCheckpointStore) Load(runID string) (Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, exists := m.checkpoints[runID]
	if !exists {
		return Checkpoint{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, runID)
	}
	cp.Data = slices.Clone(cp.Data)
	return cp, nil
}

func (m *memoryCheckpointStore) Delete(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.checkpoints, runID)
	return nil
}

func (m *memoryCheckpointStore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.checkpoints))
	for id := range m.checkpoints {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

var (
	checkpointStores = map[string]CheckpointStore{
		"memory": NewMemoryCheckpointStore(),
	}
	mutex sync.RWMutex
)

// GetCheckpointStore retrieves a CheckpointStore by name from the registry.
// NewGraph uses it to resolve CheckpointConfig.Store.
func GetCheckpointStore(name string) (CheckpointStore, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	store, exists := checkpointStores[name]
	if !exists {
		return nil, fmt.Errorf("unknown checkpoint store: %s", name)
	}
	return store, nil
}

// RegisterCheckpointStore adds a named CheckpointStore to the global registry.
//
// Example:
//
//	db, _ := store.Open("sqlite", "rfp.db")
//	state.RegisterCheckpointStore("sql", db)
//
//	cfg := config.DefaultGraphConfig("workflow")
//	cfg.Checkpoint.Store = "sql"
//	cfg.Checkpoint.Interval = 1
func RegisterCheckpointStore(name string, store CheckpointStore) {
	mutex.Lock()
	defer mutex.Unlock()

	checkpointStores[name] = store
}
