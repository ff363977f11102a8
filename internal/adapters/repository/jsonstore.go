package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/pkg/logger"
	"github.com/okian/tracker/pkg/metrics"
)

const (
	documentIndent = "    "
	documentPerm   = 0o600
	corruptSuffix  = ".corrupt"
)

// JSONStore keeps the directory in a single JSON document.
type JSONStore struct {
	path   string
	logger logger.Logger
}

// NewJSONStore returns a store backed by the document at path. The file is
// not touched until Load or Save.
func NewJSONStore(path string, opts ...Option) *JSONStore {
	s := newSettings(opts)
	return &JSONStore{path: path, logger: s.logger}
}

// Path returns the document path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *JSONStore) Load(ctx context.Context) *model.Directory {
	dir, err := s.read()
	if err == nil {
		metrics.UpdateAccounts(dir.Len())
		s.logger.Debug(ctx, "account document loaded", logger.String("path", s.path), logger.Int("accounts", dir.Len()))
		return dir
	}

	metrics.RecordStoreRecovery()
	s.logger.Warn(ctx, "account document unusable; starting empty", logger.String("path", s.path), logger.Error(err))
	if errors.Is(err, ErrMalformedDocument) {
		s.keepCorrupt(ctx)
	}
	dir = model.NewDirectory()
	if saveErr := s.Save(ctx, dir); saveErr != nil {
		s.logger.Error(ctx, "could not initialise account document", logger.Error(saveErr))
	}
	metrics.UpdateAccounts(0)
	return dir
}

func (s *JSONStore) read() (*model.Directory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	dir := model.NewDirectory()
	if err := json.Unmarshal(data, dir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return dir, nil
}

// keepCorrupt moves an unparsable document aside before it is overwritten.
func (s *JSONStore) keepCorrupt(ctx context.Context) {
	target := s.path + corruptSuffix
	if err := os.Rename(s.path, target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn(ctx, "could not keep corrupt document", logger.String("target", target), logger.Error(err))
		return
	}
	s.logger.Info(ctx, "corrupt document kept", logger.String("target", target))
}

// Save implements Store. The document is written to a temporary file in the
// same directory and renamed over the old one.
func (s *JSONStore) Save(ctx context.Context, dir *model.Directory) error {
	start := time.Now()
	err := s.write(dir)
	metrics.RecordStoreSaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordStoreSaveError()
		s.logger.Error(ctx, "account document not saved", logger.String("path", s.path), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	metrics.UpdateAccounts(dir.Len())
	return nil
}

func (s *JSONStore) write(dir *model.Directory) error {
	compact, err := json.Marshal(dir)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, asciiEscape(compact), "", documentIndent); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, documentPerm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Close implements Store. The JSON store holds no open handles.
func (s *JSONStore) Close() error {
	return nil
}
