package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// sideEffects runs best-effort writes that follow a committed mutation.
// Every step runs even if an earlier one failed; failures are logged and
// collected into a single ErrSideEffectFailed.
type sideEffects struct {
	attrs []any
	errs  []error
}

func newSideEffects(attrs ...any) *sideEffects {
	return &sideEffects{attrs: attrs}
}

func (s *sideEffects) run(name string, fn func() error) {
	if err := fn(); err != nil {
		slog.Error("side effect failed",
			append([]any{"side_effect", name, "error", err}, s.attrs...)...,
		)
		s.errs = append(s.errs, fmt.Errorf("%s: %w", name, err))
	}
}

// Err returns nil when every step succeeded.
func (s *sideEffects) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrSideEffectFailed, errors.Join(s.errs...))
}

// IsSideEffectFailure reports whether err only describes failed follow-up writes,
// meaning the primary mutation has been persisted.
func IsSideEffectFailure(err error) bool {
	return errors.Is(err, domain.ErrSideEffectFailed)
}
