// Package codesafety flags lines that may render differently than they
// compile, such as text using bidirectional overrides.
package codesafety

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/reviewboard/diffchunk"
)

// Compile-time interface verification.
var _ diffchunk.CodeSafetyChecker = (*Registry)(nil)

// ErrUnknownChecker is returned when enabling a checker that is not
// registered.
var ErrUnknownChecker = errors.New("unknown code safety checker")

// Checker inspects lines of content.
type Checker interface {
	// ID returns the stable identifier reported with findings.
	ID() string
	// Check returns the warnings and errors raised by lines.
	Check(lines []string) diffchunk.CodeSafetyResult
}

// Registry runs a set of enabled checkers over each row. A checker that
// panics is logged and reported as having found nothing.
type Registry struct {
	checkers []Checker
	enabled  []Checker
	logger   *slog.Logger
}

// NewRegistry returns a registry with checkers registered and enabled. A nil
// logger discards output.
func NewRegistry(logger *slog.Logger, checkers ...Checker) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		checkers: checkers,
		enabled:  slices.Clone(checkers),
		logger:   logger,
	}
}

// Default returns a registry with the built-in checkers.
func Default(logger *slog.Logger) *Registry {
	return NewRegistry(logger, TrojanSource{})
}

// Get returns the registered checker with id.
func (r *Registry) Get(id string) (Checker, bool) {
	for _, c := range r.checkers {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Enable restricts the checkers that run to ids. No ids enables every
// registered checker.
func (r *Registry) Enable(ids ...string) error {
	if len(ids) == 0 {
		r.enabled = slices.Clone(r.checkers)
		return nil
	}
	enabled := make([]Checker, 0, len(ids))
	for _, id := range ids {
		c, ok := r.Get(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownChecker, id)
		}
		enabled = append(enabled, c)
	}
	r.enabled = enabled
	return nil
}

// Check runs the enabled checkers over the non-empty lines of a row and
// returns one finding per checker, including checkers that found nothing.
func (r *Registry) Check(origLine, modifiedLine string) []diffchunk.CodeSafetyFinding {
	lines := make([]string, 0, 2)
	for _, l := range []string{origLine, modifiedLine} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	findings := make([]diffchunk.CodeSafetyFinding, len(r.enabled))
	for i, c := range r.enabled {
		findings[i] = diffchunk.CodeSafetyFinding{CheckerID: c.ID(), Result: r.run(c, lines)}
	}
	return findings
}

func (r *Registry) run(c Checker, lines []string) (res diffchunk.CodeSafetyResult) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Warn("code safety checker failed", "checker", c.ID(), "error", v)
			res = diffchunk.CodeSafetyResult{}
		}
	}()
	return c.Check(lines)
}
