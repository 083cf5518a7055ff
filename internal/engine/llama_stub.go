//go:build !llama

package engine

// This file provides a no-CGO stub for the llama backend. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

func newBackend(modelPath string, cfg BuildConfig) (Engine, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
