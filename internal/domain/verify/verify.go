// Package verify implements the simulated e-mail verification used at signup:
// a random four digit code is shown to the user, who gets one guess.
package verify

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Code bounds, inclusive.
const (
	MinCode = 1000
	MaxCode = 9999
)

// Verifier decides whether the owner of email confirmed it.
type Verifier interface {
	Verify(ctx context.Context, email string) (bool, error)
}

// Prompter is the user-facing side of the challenge. Deliver shows the code
// (there is no real mail channel); Ask collects one guess. ok is false when
// the user declines to answer.
type Prompter interface {
	Deliver(ctx context.Context, email string, code int) error
	Ask(ctx context.Context) (guess int, ok bool, err error)
}

// Option applies a configuration option to the CodeChallenge.
type Option func(*CodeChallenge)

// WithRand sets the random source, mainly for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(c *CodeChallenge) {
		if r != nil {
			c.rng = r
		}
	}
}

// CodeChallenge is the Verifier used by signup.
type CodeChallenge struct {
	prompter Prompter
	rng      *rand.Rand
}

// NewCodeChallenge creates a challenge that talks to the user through p.
func NewCodeChallenge(p Prompter, opts ...Option) *CodeChallenge {
	c := &CodeChallenge{
		prompter: p,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // not a security boundary
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Code draws the next code.
func (c *CodeChallenge) Code() int {
	return MinCode + c.rng.Intn(MaxCode-MinCode+1)
}

// Verify delivers a fresh code and compares the single guess. A declined
// prompt is a plain failure, not an error.
func (c *CodeChallenge) Verify(ctx context.Context, email string) (bool, error) {
	code := c.Code()
	if err := c.prompter.Deliver(ctx, email, code); err != nil {
		return false, fmt.Errorf("deliver verification code: %w", err)
	}
	guess, ok, err := c.prompter.Ask(ctx)
	if err != nil {
		return false, fmt.Errorf("read verification code: %w", err)
	}
	return ok && guess == code, nil
}

// Func adapts a plain function to Verifier.
type Func func(ctx context.Context, email string) (bool, error)

// Verify calls f.
func (f Func) Verify(ctx context.Context, email string) (bool, error) {
	return f(ctx, email)
}
