// Package repository persists the account directory.
//
// Stores assume a single process and a single writer. Nothing guards the
// backing file or database against a second process; two writers race and
// the last save wins.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/tracker/internal/domain/model"
)

// Store loads and saves the whole account directory.
type Store interface {
	// Load returns the persisted directory. It never fails: a missing,
	// unreadable or malformed backing store yields an empty directory, which
	// is persisted right away.
	Load(ctx context.Context) *model.Directory

	// Save replaces the persisted directory with dir. Failures wrap
	// ErrStorageUnavailable and leave the previous content in place.
	Save(ctx context.Context, dir *model.Directory) error

	// Close releases the backing resource.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend at path.
func Open(ctx context.Context, backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path, opts...), nil
	case BackendSQLite:
		return NewSQLStore(ctx, path, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrStorageUnavailable, backend)
	}
}
