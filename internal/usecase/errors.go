package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrOutOfRange            = errors.New("input out of range")
	ErrEmptyUndoStack        = errors.New("nothing to undo")
	ErrImportFormat          = errors.New("invalid backup format")
	ErrPersistedStateParse   = errors.New("persisted state could not be parsed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
