package app

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid input")

// StorageError reports that the feedback store could not persist or read records.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("feedback storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
