// Package engine wraps the conversational generation engine behind a small
// interface. Tokenization, weights, decoding and sampling all live in native
// code; this package only builds the engine and turns dialogs into prompts.
//
//   - types.go: Message, Dialog, Completion, SamplingParams and the Engine interface.
//   - build.go: Build resolves checkpoint/tokenizer paths and constructs a backend.
//   - checkpoint.go: locating the .gguf weights inside a checkpoint directory.
//   - template.go: Llama-2 chat prompt template and dialog validation.
//   - completion.go: batch loop shared by backends.
//   - errors.go: sentinel and typed errors (IsDependencyUnavailable).
//
// Build tags:
//
//   - In-process llama: go-llama.cpp backend, enabled with `-tags=llama`.
//     Files: llama.go, llama_cgo.go (linker rpath hints).
//   - Default: llama_stub.go, whose backend fails fast with a
//     dependency-unavailable error so CGO-free builds still compile and test.
package engine
