package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/rfp/orchestrate/state"
)

func TestMemoryCheckpointStore(t *testing.T) {
	store := state.NewMemoryCheckpointStore()

	cp := state.Checkpoint{RunID: "r1", Node: "a", Timestamp: time.Now(), Data: []byte(`{"id":"r1"}`)}
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load("r1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Node != "a" || string(got.Data) != `{"id":"r1"}` {
		t.Errorf("Load() = %+v", got)
	}

	t.Run("overwrite", func(t *testing.T) {
		store.Save(state.Checkpoint{RunID: "r1", Node: "b"})
		got, _ := store.Load("r1")
		if got.Node != "b" {
			t.Errorf("Node = %q, want %q", got.Node, "b")
		}
	})

	t.Run("list sorted", func(t *testing.T) {
		store.Save(state.Checkpoint{RunID: "r0"})
		ids, err := store.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if diff := cmp.Diff([]string{"r0", "r1"}, ids); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete("r1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := store.Load("r1"); !errors.Is(err, state.ErrCheckpointNotFound) {
			t.Errorf("Load() after Delete error = %v, want ErrCheckpointNotFound", err)
		}
		if err := store.Delete("r1"); err != nil {
			t.Errorf("Delete() of missing run error = %v", err)
		}
	})
}

func TestCheckpointStore_Registry(t *testing.T) {
	if _, err := state.GetCheckpointStore("memory"); err != nil {
		t.Errorf("GetCheckpointStore(memory) error = %v", err)
	}
	if _, err := state.GetCheckpointStore("nonexistent"); err == nil {
		t.Error("GetCheckpointStore(nonexistent) expected error")
	}

	custom := state.NewMemoryCheckpointStore()
	state.RegisterCheckpointStore("test-custom", custom)

	got, err := state.GetCheckpointStore("test-custom")
	if err != nil {
		t.Fatalf("GetCheckpointStore(test-custom) error = %v", err)
	}
	if got != custom {
		t.Error("registry returned a different store")
	}
}

func TestEncodeDecode(t *testing.T) {
	in := &run{ID: "r1", Steps: []string{"a"}, Count: 2}

	data, err := state.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := state.Decode[*run](data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	if _, err := state.Decode[*run]([]byte("{")); err == nil {
		t.Error("Decode() of malformed data expected error")
	}
}

func checkpointGraph(t *testing.T, store state.CheckpointStore, preserve bool, middle state.Node[*run]) state.Graph[*run] {
	t.Helper()

	cfg := testConfig("checkpoint")
	cfg.Checkpoint.Interval = 1
	cfg.Checkpoint.Preserve = preserve

	g, err := state.NewGraph(cfg, state.WithCheckpointStore[*run](store))
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	g.AddNode("a", step("a"))
	g.AddNode("b", middle)
	g.AddNode("c", step("c"))
	g.AddEdge("a", "b", "next", nil)
	g.AddEdge("b", "c", "next", nil)
	g.SetEntryPoint("a")
	g.SetExitPoint("c")
	return g
}

func TestGraph_Checkpoint_DeletedOnSuccess(t *testing.T) {
	store := state.NewMemoryCheckpointStore()
	g := checkpointGraph(t, store, false, step("b"))

	if _, err := g.Execute(context.Background(), &run{ID: "r1"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := store.Load("r1"); !errors.Is(err, state.ErrCheckpointNotFound) {
		t.Errorf("Load() error = %v, want ErrCheckpointNotFound", err)
	}
}

func TestGraph_Checkpoint_PreserveOnSuccess(t *testing.T) {
	store := state.NewMemoryCheckpointStore()
	g := checkpointGraph(t, store, true, step("b"))

	if _, err := g.Execute(context.Background(), &run{ID: "r1"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	cp, err := store.Load("r1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cp.Node != "c" {
		t.Errorf("checkpoint Node = %q, want %q", cp.Node, "c")
	}
}

func TestGraph_Resume_FromCheckpoint(t *testing.T) {
	store := state.NewMemoryCheckpointStore()
	boom := errors.New("boom")

	broken := checkpointGraph(t, store, false, failing(boom))
	if _, err := broken.Execute(context.Background(), &run{ID: "r1"}); !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}

	cp, err := store.Load("r1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cp.Node != "a" {
		t.Fatalf("checkpoint Node = %q, want %q", cp.Node, "a")
	}

	fixed := checkpointGraph(t, store, false, step("b"))
	final, err := fixed.Resume(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, final.Steps); diff != "" {
		t.Errorf("Steps mismatch (-want +got):\n%s", diff)
	}
	if _, err := store.Load("r1"); !errors.Is(err, state.ErrCheckpointNotFound) {
		t.Errorf("checkpoint should be removed after resumed run completes, got %v", err)
	}
}

func TestGraph_Resume_Errors(t *testing.T) {
	t.Run("checkpointing disabled", func(t *testing.T) {
		g := newGraph(t)
		g.AddNode("a", step("a"))
		g.SetEntryPoint("a")
		g.SetExitPoint("a")

		if _, err := g.Resume(context.Background(), "r1"); err == nil {
			t.Error("Resume() expected error")
		}
	})

	t.Run("checkpoint not found", func(t *testing.T) {
		g := checkpointGraph(t, state.NewMemoryCheckpointStore(), false, step("b"))
		if _, err := g.Resume(context.Background(), "missing"); !errors.Is(err, state.ErrCheckpointNotFound) {
			t.Errorf("Resume() error = %v, want ErrCheckpointNotFound", err)
		}
	})

	t.Run("checkpoint at exit point", func(t *testing.T) {
		store := state.NewMemoryCheckpointStore()
		g := checkpointGraph(t, store, true, step("b"))
		if _, err := g.Execute(context.Background(), &run{ID: "done"}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if _, err := g.Resume(context.Background(), "done"); err == nil {
			t.Error("Resume() at exit point expected error")
		}
	})
}
