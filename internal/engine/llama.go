//go:build llama

package engine

import (
	"context"
	"errors"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaEngine owns the loaded model. Predict is not reentrant, hence mu.
type llamaEngine struct {
	mu        sync.Mutex
	model     *llama.LLama
	maxSeqLen int
	maxBatch  int
	threads   int
}

// modelOptions maps cfg onto llama.cpp load options. MaxBatchSize is a dialog
// count enforced by completeBatch, not llama.cpp's n_batch token chunk.
func modelOptions(cfg BuildConfig) []llama.ModelOption {
	mo := []llama.ModelOption{llama.SetContext(cfg.MaxSeqLen)}
	if cfg.GPULayers > 0 {
		mo = append(mo, llama.SetGPULayers(cfg.GPULayers))
	}
	return mo
}

func newBackend(modelPath string, cfg BuildConfig) (Engine, error) {
	m, err := llama.New(modelPath, modelOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return &llamaEngine{
		model:     m,
		maxSeqLen: cfg.MaxSeqLen,
		maxBatch:  cfg.MaxBatchSize,
		threads:   cfg.Threads,
	}, nil
}

func (e *llamaEngine) ChatCompletion(ctx context.Context, dialogs []Dialog, params SamplingParams) ([]Completion, error) {
	return completeBatch(ctx, dialogs, e.maxBatch, params, e.predict)
}

func (e *llamaEngine) predict(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return "", errors.New("llama model not initialized")
	}
	// Stop generation once the caller goes away.
	e.model.SetTokenCallback(func(string) bool {
		return ctx.Err() == nil
	})
	text, err := e.model.Predict(prompt, predictOptions(params, e.maxSeqLen, e.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func (e *llamaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}

// predictOptions converts sampling params into go-llama.cpp options.
func predictOptions(params SamplingParams, maxSeqLen, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(maxGenLen(params, maxSeqLen)),
		llama.SetTemperature(params.Temperature),
		llama.SetTopP(params.TopP),
	}
	if threads > 0 {
		po = append(po, llama.SetThreads(threads))
	}
	return po
}
