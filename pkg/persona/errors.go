package persona

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the target or task collection is empty
	ErrEmptyInput = errors.New("empty input")
	// ErrNoTargets is returned when no target records are supplied
	ErrNoTargets = fmt.Errorf("%w: target collection must not be empty", ErrEmptyInput)
	// ErrNoTasks is returned when no task records are supplied
	ErrNoTasks = fmt.Errorf("%w: task collection must not be empty", ErrEmptyInput)
	// ErrInvalidTimeBound is returned when a time bound is not in a supported layout
	ErrInvalidTimeBound = errors.New("invalid time bound")
)
