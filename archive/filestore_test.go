package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/rfp/archive"
)

func writeTestFile(t *testing.T, root, key, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileStore_List_MissingRoot(t *testing.T) {
	store := archive.NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	keys, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() returned %d keys, want 0", len(keys))
	}
}

func TestFileStore_List(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "bids/approved/run-1.json", "{}")
	writeTestFile(t, root, "bids/declined/run-2.json", "{}")
	writeTestFile(t, root, "checkpoints/run-3.json", "{}")
	writeTestFile(t, root, "bids/approved/.tmp-123", "partial")

	store := archive.NewFileStore(root)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"bids/approved/run-1.json", "bids/declined/run-2.json", "checkpoints/run-3.json"}},
		{"bids/", []string{"bids/approved/run-1.json", "bids/declined/run-2.json"}},
		{"bids/declined/", []string{"bids/declined/run-2.json"}},
		{"bids/escalated/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			keys, err := store.List(context.Background(), tt.prefix)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(keys) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", keys, tt.want)
			}
			for i, key := range keys {
				if key != tt.want[i] {
					t.Errorf("List()[%d] = %q, want %q", i, key, tt.want[i])
				}
			}
		})
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	root := t.TempDir()
	store := archive.NewFileStore(root)
	ctx := context.Background()

	entries := []archive.Entry{
		{Key: "bids/approved/run-1.json", Value: []byte(`{"run_id":"run-1"}`)},
		{Key: "checkpoints/run-1.json", Value: []byte(`{}`)},
	}
	if err := store.Save(ctx, entries...); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "bids", "approved", "run-1.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != `{"run_id":"run-1"}` {
		t.Errorf("file content = %q, want %q", string(got), `{"run_id":"run-1"}`)
	}

	loaded, err := store.Load(ctx, "checkpoints/run-1.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 1 || string(loaded[0].Value) != "{}" {
		t.Errorf("Load() = %+v, want one entry with {}", loaded)
	}

	temps, _ := filepath.Glob(filepath.Join(root, "bids", "approved", ".tmp-*"))
	if len(temps) != 0 {
		t.Errorf("temporary files left behind: %v", temps)
	}
}

func TestFileStore_Load_KeyNotFound(t *testing.T) {
	store := archive.NewFileStore(t.TempDir())

	_, err := store.Load(context.Background(), "bids/missing.json")
	if !errors.Is(err, archive.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want %v", err, archive.ErrKeyNotFound)
	}
}

func TestFileStore_Save_CancelledContext(t *testing.T) {
	store := archive.NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, archive.Entry{Key: "a.json", Value: []byte("{}")})
	if !errors.Is(err, archive.ErrSaveFailed) {
		t.Errorf("Save() error = %v, want %v", err, archive.ErrSaveFailed)
	}
}

func TestFileStore_Delete_PrunesEmptyDirs(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "checkpoints/run-1.json", "{}")
	store := archive.NewFileStore(root)

	if err := store.Delete(context.Background(), "checkpoints/run-1.json", "checkpoints/missing.json"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "checkpoints")); !os.IsNotExist(err) {
		t.Errorf("checkpoints dir still exists, err = %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root removed: %v", err)
	}
}
