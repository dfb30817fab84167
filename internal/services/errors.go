package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for lookups of records that do not exist or are not
// owned by the caller. The two cases are deliberately indistinguishable so a
// journal's existence never leaks across owners.
var ErrNotFound = errors.New("record not found")

// StorageError reports a failed photo upload or deletion. Filename identifies
// which photo failed so batch submission errors are actionable.
type StorageError struct {
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Filename, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// GenerationError reports a failed model call. Task names which generation
// step failed (narrative, title, photo description, chat). Generation is never
// retried automatically; the caller decides.
type GenerationError struct {
	Task string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation: %s: %v", e.Task, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
