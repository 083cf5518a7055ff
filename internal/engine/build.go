package engine

import (
	"context"
	"fmt"

	"llamachat/internal/common/fsutil"
)

// Build constructs an engine from cfg. It fails if the checkpoint or tokenizer
// cannot be found, if the sizes are not positive, or if the backend cannot load.
func Build(ctx context.Context, cfg BuildConfig) (Engine, error) {
	if cfg.MaxSeqLen <= 0 {
		return nil, fmt.Errorf("max sequence length must be positive, got %d", cfg.MaxSeqLen)
	}
	if cfg.MaxBatchSize <= 0 {
		return nil, fmt.Errorf("max batch size must be positive, got %d", cfg.MaxBatchSize)
	}
	modelPath, err := FindCheckpoint(cfg.CheckpointDir)
	if err != nil {
		return nil, err
	}
	tok, err := fsutil.Resolve(cfg.TokenizerPath)
	if err != nil {
		return nil, err
	}
	if err := fsutil.RequireFile(tok); err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eng, err := newBackend(modelPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", modelPath, err)
	}
	return eng, nil
}

// maxGenLen applies the unset default of MaxSeqLen-1.
func maxGenLen(params SamplingParams, maxSeqLen int) int {
	if params.MaxGenLen > 0 {
		return params.MaxGenLen
	}
	if maxSeqLen > 1 {
		return maxSeqLen - 1
	}
	return 1
}

// Available reports whether this binary carries a real generation backend.
func Available() bool { return llamaBuilt }
