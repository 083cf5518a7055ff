package engine

import "context"

// Role tags a message within a dialog.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged utterance.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Dialog is an ordered sequence of messages submitted as one unit of context.
type Dialog []Message

// Completion is the generated reply for one submitted dialog.
type Completion struct {
	Generation Message `json:"generation"`
}

// SamplingParams are passed opaquely to the backend.
type SamplingParams struct {
	Temperature float32
	TopP        float32
	// MaxGenLen of 0 means unset: the backend generates up to MaxSeqLen-1 tokens.
	MaxGenLen int
}

// BuildConfig carries the construction parameters of an engine.
type BuildConfig struct {
	CheckpointDir string
	TokenizerPath string
	MaxSeqLen     int
	MaxBatchSize  int
	// Backend tuning; 0 keeps the backend default.
	Threads   int
	GPULayers int
}

// Engine is a loaded, stateful chat model.
type Engine interface {
	// ChatCompletion returns one completion per dialog, in order.
	ChatCompletion(ctx context.Context, dialogs []Dialog, params SamplingParams) ([]Completion, error)
	// Close releases the model.
	Close() error
}
