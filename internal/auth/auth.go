// Package auth checks credentials and registers new accounts.
//
// Passwords are stored and compared as plaintext, as in the account document
// format. There is no rate limiting and sessions never expire.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/tracker/internal/adapters/repository"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/domain/verify"
	"github.com/okian/tracker/pkg/logger"
	"github.com/okian/tracker/pkg/metrics"
)

// Default author identity. The author sees every account's records and
// cannot change them.
const (
	DefaultAuthorUsername = "prosun07a"
	DefaultAuthorPassword = "147911"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAuthor overrides the privileged identity. Empty values are ignored.
func WithAuthor(username, password string) Option {
	return func(s *Service) {
		if username != "" && password != "" {
			s.authorUser = username
			s.authorPass = password
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service authenticates users against the shared account directory.
type Service struct {
	store    repository.Store
	dir      *model.Directory
	verifier verify.Verifier

	authorUser string
	authorPass string
	logger     logger.Logger
}

// New creates the service. dir is shared with the record repository and is
// saved through store on every signup.
func New(store repository.Store, dir *model.Directory, v verify.Verifier, opts ...Option) *Service {
	s := &Service{
		store:      store,
		dir:        dir,
		verifier:   v,
		authorUser: DefaultAuthorUsername,
		authorPass: DefaultAuthorPassword,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login returns a session for matching credentials. The author pair always
// succeeds, even on an empty directory.
func (s *Service) Login(ctx context.Context, username, password string) (model.Session, error) {
	if username == s.authorUser && password == s.authorPass {
		metrics.RecordLogin(metrics.ResultOK, true)
		s.logger.Info(ctx, "author login", logger.String("user", username))
		return model.Session{ID: uuid.NewString(), Username: username, Privileged: true}, nil
	}

	acc, ok := s.dir.Get(username)
	if !ok || acc.Password != password {
		metrics.RecordLogin(metrics.ResultRejected, false)
		s.logger.Info(ctx, "login rejected", logger.String("user", username))
		return model.Session{}, ErrInvalidCredentials
	}

	metrics.RecordLogin(metrics.ResultOK, false)
	s.logger.Info(ctx, "login", logger.String("user", username))
	return model.Session{ID: uuid.NewString(), Username: username}, nil
}

// Signup registers a new account with an empty record list after the e-mail
// challenge passes, and saves the directory.
func (s *Service) Signup(ctx context.Context, username, password, email string) (model.Account, error) {
	acc, err := s.signup(ctx, username, password, email)
	if err != nil {
		metrics.RecordSignup(metrics.ResultRejected)
		s.logger.Info(ctx, "signup rejected", logger.String("user", username), logger.Error(err))
		return model.Account{}, err
	}
	metrics.RecordSignup(metrics.ResultOK)
	s.logger.Info(ctx, "account created", logger.String("user", username))
	return acc, nil
}

func (s *Service) signup(ctx context.Context, username, password, email string) (model.Account, error) {
	if username == "" || password == "" || email == "" {
		return model.Account{}, ErrMissingField
	}
	if s.dir.Has(username) || username == s.authorUser {
		return model.Account{}, ErrDuplicateUsername
	}

	ok, err := s.verifier.Verify(ctx, email)
	if err != nil {
		return model.Account{}, fmt.Errorf("%w: %w", ErrEmailVerificationFailed, err)
	}
	if !ok {
		return model.Account{}, ErrEmailVerificationFailed
	}

	acc := model.Account{Username: username, Password: password, Email: email, Students: []model.StudentRecord{}}
	s.dir.Add(acc)
	if err := s.store.Save(ctx, s.dir); err != nil {
		s.dir.Remove(username)
		return model.Account{}, err
	}
	return acc, nil
}

// IsAuthor reports whether username is the privileged identity.
func (s *Service) IsAuthor(username string) bool {
	return username == s.authorUser
}
