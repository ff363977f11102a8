// Package records reads and replaces the student records a session can see.
package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/tracker/internal/adapters/repository"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/pkg/logger"
	"github.com/okian/tracker/pkg/metrics"
)

// Outcome is the result of a Replace that did not fail.
type Outcome string

const (
	// OutcomeSaved means the records were persisted.
	OutcomeSaved Outcome = Outcome(metrics.OutcomeSaved)
	// OutcomeDenied means the session may not change records. Nothing was
	// written.
	OutcomeDenied Outcome = Outcome(metrics.OutcomeDenied)
)

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// Repository serves record reads and writes over the shared directory.
type Repository struct {
	store  repository.Store
	dir    *model.Directory
	logger logger.Logger
}

// New creates a repository over dir, persisting through store.
func New(store repository.Store, dir *model.Directory, opts ...Option) *Repository {
	r := &Repository{store: store, dir: dir, logger: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListVisible returns a copy of the records visible to sess. A privileged
// session sees every account's records, in directory order then record order.
func (r *Repository) ListVisible(ctx context.Context, sess model.Session) []model.StudentRecord {
	var out []model.StudentRecord
	if sess.Privileged {
		for _, acc := range r.dir.Accounts() {
			out = append(out, model.CloneRecords(acc.Students)...)
		}
	} else if acc, ok := r.dir.Get(sess.Username); ok {
		out = model.CloneRecords(acc.Students)
	}
	if out == nil {
		out = []model.StudentRecord{}
	}
	metrics.UpdateVisibleRecords(len(out))
	r.logger.Debug(ctx, "records listed", logger.String("user", sess.Username), logger.Int("count", len(out)))
	return out
}

// Replace overwrites the owner's record list with recs and saves the
// directory. Privileged sessions get OutcomeDenied and change nothing. A
// failed save restores the previous list.
func (r *Repository) Replace(ctx context.Context, sess model.Session, recs []model.StudentRecord) (Outcome, error) {
	if sess.Privileged {
		metrics.RecordSave(metrics.OutcomeDenied)
		r.logger.Info(ctx, "save denied for privileged session", logger.String("user", sess.Username))
		return OutcomeDenied, nil
	}
	acc, ok := r.dir.Get(sess.Username)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccount, sess.Username)
	}

	previous := acc.Students
	acc.Students = model.CloneRecords(recs)
	if acc.Students == nil {
		acc.Students = []model.StudentRecord{}
	}
	if err := r.store.Save(ctx, r.dir); err != nil {
		acc.Students = previous
		metrics.RecordSave(metrics.ResultError)
		return "", err
	}

	metrics.RecordSave(metrics.OutcomeSaved)
	metrics.UpdateVisibleRecords(len(acc.Students))
	r.logger.Info(ctx, "records saved", logger.String("user", sess.Username), logger.Int("count", len(acc.Students)))
	return OutcomeSaved, nil
}

// Append adds recs to the end of the owner's list and saves.
func (r *Repository) Append(ctx context.Context, sess model.Session, recs []model.StudentRecord) (Outcome, error) {
	if sess.Privileged {
		return r.Replace(ctx, sess, nil)
	}
	acc, ok := r.dir.Get(sess.Username)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccount, sess.Username)
	}
	next := make([]model.StudentRecord, 0, len(acc.Students)+len(recs))
	next = append(next, acc.Students...)
	next = append(next, recs...)
	return r.Replace(ctx, sess, next)
}

// Open returns a working copy of the records visible to sess.
func (r *Repository) Open(ctx context.Context, sess model.Session) *View {
	return &View{session: sess, rows: r.ListVisible(ctx, sess)}
}

// Filter returns the records whose name contains query, ignoring case. An
// empty query matches everything.
func Filter(recs []model.StudentRecord, query string) []model.StudentRecord {
	idx := FilterIndex(recs, query)
	out := make([]model.StudentRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, recs[i])
	}
	return out
}

// FilterIndex is Filter returning positions in recs, so matches can be
// addressed in a View opened over the same list.
func FilterIndex(recs []model.StudentRecord, query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]int, 0, len(recs))
	for i, rec := range recs {
		if q == "" || strings.Contains(strings.ToLower(rec.Name), q) {
			out = append(out, i)
		}
	}
	return out
}
