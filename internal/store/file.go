package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
)

// FileStore keeps all snapshots in memory and rewrites a JSON file on
// every change. An empty path keeps the store in memory only.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	cities  map[string]domain.CityMetrics
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Open loads the file at path. A missing or unreadable file yields an empty
// store; the problem is logged and the file is replaced on the first Put.
func Open(path string, logger *slog.Logger, metrics *observability.Metrics) *FileStore {
	s := &FileStore{
		path:    path,
		cities:  make(map[string]domain.CityMetrics),
		logger:  logger,
		metrics: metrics,
	}
	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("metrics file not found, starting empty", "path", path)
	case err != nil:
		logger.Warn("metrics file unreadable, starting empty", "path", path, "error", err)
	default:
		if err := json.Unmarshal(data, &s.cities); err != nil {
			logger.Warn("metrics file corrupt, starting empty", "path", path, "error", err)
			s.cities = make(map[string]domain.CityMetrics)
		}
		// A literal null decodes without error but leaves the map nil.
		if s.cities == nil {
			logger.Warn("metrics file holds no object, starting empty", "path", path)
			s.cities = make(map[string]domain.CityMetrics)
		}
	}
	metrics.CitiesTracked.Set(float64(len(s.cities)))
	logger.Info("metrics store loaded", "path", path, "cities", len(s.cities))
	return s
}

// Get returns the snapshot stored under name.
func (s *FileStore) Get(name string) (domain.CityMetrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.cities[name]
	return m, ok
}

// GetOrCreate returns the stored snapshot, or stores and persists the one
// built by create when name is unknown. Persistence failures are logged;
// the created snapshot is still kept in memory.
func (s *FileStore) GetOrCreate(name string, create func() domain.CityMetrics) domain.CityMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.cities[name]; ok {
		return m
	}
	m := create()
	s.cities[name] = m
	s.metrics.CitiesTracked.Set(float64(len(s.cities)))
	if err := s.persistLocked(); err != nil {
		s.logger.Error("persist metrics store", "city", name, "error", err)
	}
	return m
}

// Put replaces the snapshot for name and rewrites the file.
func (s *FileStore) Put(name string, m domain.CityMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cities[name] = m
	s.metrics.CitiesTracked.Set(float64(len(s.cities)))
	return s.persistLocked()
}

// All returns a copy of every stored snapshot.
func (s *FileStore) All() map[string]domain.CityMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.cities)
}

// CheckReadiness reports whether the backing directory exists or can be created.
func (s *FileStore) CheckReadiness(_ context.Context) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("metrics store directory: %w", err)
	}
	return nil
}

func (s *FileStore) persistLocked() error {
	if s.path == "" {
		return nil
	}
	if err := s.write(); err != nil {
		s.metrics.StoreWrites.WithLabelValues("error").Inc()
		return err
	}
	s.metrics.StoreWrites.WithLabelValues("success").Inc()
	return nil
}

func (s *FileStore) write() error {
	data, err := json.MarshalIndent(s.cities, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write metrics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace metrics file: %w", err)
	}
	return nil
}
