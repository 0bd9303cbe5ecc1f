package commodity

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// RateFile is the on-disk rate table format.
//
//	currency: USD
//	rates:
//	  Copper: 9200
//	  Aluminium: 2400
type RateFile struct {
	Currency string             `yaml:"currency"`
	Rates    map[string]float64 `yaml:"rates"`
}

// FileSource serves snapshots from a YAML rate file and reloads it when the
// file changes on disk.
type FileSource struct {
	path string

	mu       sync.RWMutex
	rates    map[string]float64
	currency string
}

// LoadFile reads the rate file at path.
func LoadFile(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSource) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Rates:    maps.Clone(s.rates),
		Currency: s.currency,
		Source:   s.path,
		TakenAt:  time.Now(),
	}
}

func (s *FileSource) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read rate file: %w", err)
	}

	var file RateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse rate file: %w", err)
	}
	if len(file.Rates) == 0 {
		return fmt.Errorf("rate file %s defines no rates", s.path)
	}

	rates := make(map[string]float64, len(file.Rates))
	for k, v := range file.Rates {
		if v <= 0 {
			return fmt.Errorf("rate file %s: non-positive rate for %s", s.path, k)
		}
		rates[rfp.NormalizeMaterial(k)] = v
	}

	currency := file.Currency
	if currency == "" {
		currency = "USD"
	}

	s.mu.Lock()
	s.rates = rates
	s.currency = currency
	s.mu.Unlock()

	return nil
}

// Watch reloads the rate file on every write until ctx is done. A rewrite
// that fails to parse keeps the previous table in place. The directory is
// watched rather than the file so editors that replace the file atomically
// are still observed.
func (s *FileSource) Watch(ctx context.Context, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", s.path, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if err := s.reload(); err != nil {
				logger.Warn("rate reload failed", "path", s.path, "error", err)
				continue
			}
			logger.Info("rates reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("rate watcher error", "error", err)
		}
	}
}
