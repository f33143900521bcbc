package interview

import "errors"

var (
	ErrNoIdentity        = errors.New("candidate identity is missing")
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrCompleted         = errors.New("interview already completed")
	ErrQuestionLimit     = errors.New("question limit reached")
	ErrSkipDisabled      = errors.New("skipping is disabled for this interview")
)
