// Package service is the command interface of the tracker. It owns the
// loaded account directory and routes every user action to the auth,
// record and export components.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/tracker/internal/adapters/export"
	"github.com/okian/tracker/internal/adapters/repository"
	"github.com/okian/tracker/internal/auth"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/domain/ranking"
	"github.com/okian/tracker/internal/domain/types"
	"github.com/okian/tracker/internal/domain/verify"
	"github.com/okian/tracker/internal/records"
	"github.com/okian/tracker/pkg/logger"
	"github.com/okian/tracker/pkg/metrics"
)

// Defaults for report layout.
const (
	DefaultLinesPerPage = 36
	DefaultReportDir    = "."
)

// Artifact describes a written report file.
type Artifact struct {
	Format export.Format
	Path   string
	Pages  int
}

// Service implements the tracker commands.
type Service struct {
	mu sync.Mutex

	// Core components
	store    repository.Store
	dir      *model.Directory
	auth     *auth.Service
	records  *records.Repository
	verifier verify.Verifier

	// Configuration
	authorUser   string
	authorPass   string
	reportDir    string
	linesPerPage int
	highlight    int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithVerifier sets the e-mail verifier used by Signup.
func WithVerifier(v verify.Verifier) Option {
	return func(s *Service) {
		if v != nil {
			s.verifier = v
		}
	}
}

// WithAuthor sets the privileged identity.
func WithAuthor(username, password string) Option {
	return func(s *Service) {
		s.authorUser = username
		s.authorPass = password
	}
}

// WithReportDir sets the directory reports are written to.
func WithReportDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.reportDir = dir
		}
	}
}

// WithLinesPerPage sets the report page length. Zero puts every line on one
// page.
func WithLinesPerPage(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.linesPerPage = n
		}
	}
}

// WithHighlightCount sets how many entries are tagged top and bottom.
func WithHighlightCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.highlight = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over store. Nothing is loaded until Start.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		verifier: verify.Func(func(context.Context, string) (bool, error) {
			return false, ErrNoVerifier
		}),
		authorUser:   auth.DefaultAuthorUsername,
		authorPass:   auth.DefaultAuthorPassword,
		reportDir:    DefaultReportDir,
		linesPerPage: DefaultLinesPerPage,
		highlight:    ranking.DefaultHighlight,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the account directory and wires the components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.dir = s.store.Load(ctx)
	s.auth = auth.New(s.store, s.dir, s.verifier,
		auth.WithAuthor(s.authorUser, s.authorPass),
		auth.WithLogger(s.logger.Named("auth")),
	)
	s.records = records.New(s.store, s.dir, records.WithLogger(s.logger.Named("records")))

	s.started = true
	s.logger.Info(ctx, "tracker service started",
		logger.Int("accounts", s.dir.Len()),
		logger.String("reportDir", s.reportDir),
		logger.Int("linesPerPage", s.linesPerPage),
		logger.Int("highlight", s.highlight),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "tracker service stopped")
}

func (s *Service) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Login authenticates a user.
func (s *Service) Login(ctx context.Context, username, password string) (model.Session, error) {
	if err := s.ready(); err != nil {
		return model.Session{}, err
	}
	return s.auth.Login(ctx, username, password)
}

// Signup registers an account after e-mail verification.
func (s *Service) Signup(ctx context.Context, username, password, email string) (model.Account, error) {
	if err := s.ready(); err != nil {
		return model.Account{}, err
	}
	return s.auth.Signup(ctx, username, password, email)
}

// List returns the visible records whose name matches query.
func (s *Service) List(ctx context.Context, sess model.Session, query string) ([]model.StudentRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return records.Filter(s.records.ListVisible(ctx, sess), query), nil
}

// Open returns a working view of the session's visible records.
func (s *Service) Open(ctx context.Context, sess model.Session) (*records.View, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.records.Open(ctx, sess), nil
}

// ApplyEdit saves recs as the session owner's full record list.
func (s *Service) ApplyEdit(ctx context.Context, sess model.Session, recs []model.StudentRecord) (records.Outcome, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return s.records.Replace(ctx, sess, recs)
}

// RequestChart ranks the visible records. Totals are recomputed on every
// call.
func (s *Service) RequestChart(ctx context.Context, sess model.Session) ([]types.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return ranking.Rank(s.records.ListVisible(ctx, sess), s.highlight), nil
}

// RequestReport writes the visible records in format to the report
// directory.
func (s *Service) RequestReport(ctx context.Context, sess model.Session, format export.Format) (Artifact, error) {
	if err := s.ready(); err != nil {
		return Artifact{}, err
	}

	recs := s.records.ListVisible(ctx, sess)
	art := Artifact{Format: format, Path: filepath.Join(s.reportDir, export.FileName(sess.Username, format))}

	var render func(io.Writer) error
	switch format {
	case export.FormatPDF:
		pages := ranking.ReportPages(ranking.Lines(sess.Username, recs), s.linesPerPage)
		art.Pages = len(pages)
		render = func(w io.Writer) error {
			return export.NewPDFRenderer().Render(w, ranking.Header(sess.Username), pages)
		}
	case export.FormatText:
		pages := ranking.ReportPages(ranking.Lines(sess.Username, recs), s.linesPerPage)
		art.Pages = len(pages)
		render = func(w io.Writer) error {
			return export.TextRenderer{}.Render(w, pages)
		}
	case export.FormatXLSX:
		entries := ranking.Rank(recs, s.highlight)
		art.Pages = 1
		render = func(w io.Writer) error {
			return export.ChartWorkbook{}.Render(w, export.ChartTitle(s.highlight), entries)
		}
	default:
		return Artifact{}, fmt.Errorf("%w: %q", export.ErrUnknownFormat, format)
	}

	if err := writeArtifact(art.Path, render); err != nil {
		s.logger.Error(ctx, "report not written", logger.String("path", art.Path), logger.Error(err))
		return Artifact{}, err
	}
	metrics.RecordReport(string(format))
	s.logger.Info(ctx, "report written",
		logger.String("user", sess.Username),
		logger.String("format", string(format)),
		logger.String("path", art.Path),
		logger.Int("records", len(recs)),
	)
	return art, nil
}

// writeArtifact renders into path, removing the file if rendering fails.
func writeArtifact(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ImportRecords appends the rows of an XLSX workbook to the owner's records.
// It returns the number of rows read.
func (s *Service) ImportRecords(ctx context.Context, sess model.Session, r io.Reader) (records.Outcome, int, error) {
	if err := s.ready(); err != nil {
		return "", 0, err
	}
	if sess.Privileged {
		out, err := s.records.Replace(ctx, sess, nil)
		return out, 0, err
	}

	recs, err := export.ImportWorkbook(r)
	if err != nil {
		return "", 0, err
	}
	out, err := s.records.Append(ctx, sess, recs)
	if err != nil {
		return "", 0, err
	}
	metrics.RecordImported(len(recs))
	s.logger.Info(ctx, "records imported", logger.String("user", sess.Username), logger.Int("count", len(recs)))
	return out, len(recs), nil
}

// Seed appends n generated sample records to the owner's records.
func (s *Service) Seed(ctx context.Context, sess model.Session, n int) (records.Outcome, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if n <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	out, err := s.records.Append(ctx, sess, GenerateRecords(n))
	if err != nil {
		return "", err
	}
	if out == records.OutcomeSaved {
		metrics.RecordImported(n)
		s.logger.Info(ctx, "sample records added", logger.String("user", sess.Username), logger.Int("count", n))
	}
	return out, nil
}

// IsRejected reports whether err is a user-facing rejection rather than a
// storage or rendering failure.
func IsRejected(err error) bool {
	for _, target := range []error{
		auth.ErrInvalidCredentials,
		auth.ErrMissingField,
		auth.ErrDuplicateUsername,
		auth.ErrEmailVerificationFailed,
		records.ErrIndexOutOfRange,
		export.ErrUnknownFormat,
		ErrInvalidCount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
