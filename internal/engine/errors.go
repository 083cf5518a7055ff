package engine

import "errors"

var (
	// ErrBatchTooLarge is returned when more dialogs are submitted than MaxBatchSize.
	ErrBatchTooLarge = errors.New("batch exceeds max batch size")
	// ErrInvalidDialog is returned for dialogs that break the user/assistant alternation.
	ErrInvalidDialog = errors.New("invalid dialog")
)

// dependencyUnavailableError signals a missing native runtime (e.g., llama.cpp).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}
