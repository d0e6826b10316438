package service

import (
	"fmt"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// ValidateTransition checks a requested status change against the state machine.
func ValidateTransition(from, to domain.TaskStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, to)
	}

	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal, cannot move to %s", domain.ErrInvalidTransition, from, to)
	}

	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s (allowed: %v)", domain.ErrInvalidTransition, from, to, from.AllowedTransitions())
	}

	return nil
}
