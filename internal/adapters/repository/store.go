// Package repository defines the macro store interface and its
// file-backed implementation.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/iam74k4/eventplayback/pkg/logger"
	"github.com/iam74k4/eventplayback/pkg/metrics"
)

// File permission constants.
const (
	macroFilePermission = 0o644
	macroDirPermission  = 0o755
)

// Store provides durable access to macros.
type Store interface {
	// Save persists a macro at path. The write is atomic: a crash
	// mid-write never corrupts an existing file at path.
	Save(ctx context.Context, m model.Macro, path string) error

	// Load reads and validates the macro stored at path.
	// The returned macro is a fresh value the caller owns.
	Load(ctx context.Context, path string) (model.Macro, error)
}

// FileStore implements Store on the local filesystem using JSON documents.
type FileStore struct {
	logger logger.Logger
}

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a file-backed macro store.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		logger: logger.Get().Named("store"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Save serializes the macro and writes it atomically: the document goes
// to a temporary file in the target directory first, then replaces path
// with a rename.
func (s *FileStore) Save(ctx context.Context, m model.Macro, path string) error {
	if err := m.Validate(); err != nil {
		metrics.RecordStoreError("save")
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		metrics.RecordStoreError("save")
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, macroDirPermission); err != nil {
		metrics.RecordStoreError("save")
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, macroFilePermission); err != nil {
		metrics.RecordStoreError("save")
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		metrics.RecordStoreError("save")
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	metrics.RecordMacroSaved()
	s.logger.Info(ctx, "macro saved",
		logger.String("path", path),
		logger.String("name", m.Name),
		logger.Int("events", len(m.Events)),
	)
	return nil
}

// Load reads the document at path and reconstructs the macro. A
// malformed document or any malformed event aborts the load entirely;
// no partial macro is returned.
func (s *FileStore) Load(ctx context.Context, path string) (model.Macro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordStoreError("load")
		return model.Macro{}, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var m model.Macro
	if err := json.Unmarshal(data, &m); err != nil {
		metrics.RecordStoreError("load")
		return model.Macro{}, err
	}

	metrics.RecordMacroLoaded()
	s.logger.Info(ctx, "macro loaded",
		logger.String("path", path),
		logger.String("name", m.Name),
		logger.Int("events", len(m.Events)),
	)
	return m, nil
}
