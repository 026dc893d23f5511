package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a request rejected by validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFailedPrecondition marks a request that is valid but not allowed in the current state.
	ErrFailedPrecondition = errors.New("failed precondition")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFailedPrecondition, fmt.Sprintf(format, args...))
}
