package chat

import (
	"context"
	"sync"

	"llamachat/internal/engine"
)

// fakeEngine is a lightweight in-memory engine used for tests.
type fakeEngine struct {
	mu      sync.Mutex
	results []engine.Completion
	err     error
	block   chan struct{} // if set, ChatCompletion waits on it
	dialogs [][]engine.Dialog
	params  []engine.SamplingParams
}

func (f *fakeEngine) ChatCompletion(ctx context.Context, dialogs []engine.Dialog, params engine.SamplingParams) ([]engine.Completion, error) {
	f.mu.Lock()
	f.dialogs = append(f.dialogs, dialogs)
	f.params = append(f.params, params)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeEngine) Close() error { return nil }

func reply(role engine.Role, content string) engine.Completion {
	return engine.Completion{Generation: engine.Message{Role: role, Content: content}}
}
