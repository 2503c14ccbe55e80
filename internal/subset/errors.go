package subset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition marks dataset-level failures caught before output is
	// written: missing index, missing wavs directory, empty dataset.
	ErrPrecondition = errors.New("precondition failed")
	// ErrValidation marks unusable request parameters.
	ErrValidation = errors.New("validation error")
	// ErrLocked marks a destination already claimed by another run.
	ErrLocked = errors.New("destination locked")
	// ErrPartial marks a strict-mode run that completed with record-level
	// failures.
	ErrPartial = errors.New("completed with failures")
)

// wrap tags an error with one of the sentinel markers above plus operation
// context for the console message.
func wrap(marker error, operation, message string, err error) error {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if err != nil {
		if detail == "" {
			return fmt.Errorf("%w: %w", marker, err)
		}
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
