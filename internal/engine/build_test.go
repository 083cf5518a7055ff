package engine_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"llamachat/internal/engine"
)

var _ = Describe("Build", func() {
	var (
		dir string
		cfg engine.BuildConfig
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		touch(dir, "model.gguf")
		cfg = engine.BuildConfig{
			CheckpointDir: dir,
			TokenizerPath: touch(dir, "tokenizer.model"),
			MaxSeqLen:     512,
			MaxBatchSize:  6,
		}
	})

	It("rejects non-positive sizes", func() {
		cfg.MaxSeqLen = 0
		_, err := engine.Build(context.Background(), cfg)
		Expect(err).To(MatchError(ContainSubstring("max sequence length")))

		cfg.MaxSeqLen = 512
		cfg.MaxBatchSize = -1
		_, err = engine.Build(context.Background(), cfg)
		Expect(err).To(MatchError(ContainSubstring("max batch size")))
	})

	It("fails when the tokenizer is missing", func() {
		cfg.TokenizerPath = filepath.Join(dir, "nope.model")

		_, err := engine.Build(context.Background(), cfg)

		Expect(err).To(MatchError(ContainSubstring("tokenizer")))
	})

	It("fails when the checkpoint is missing", func() {
		cfg.CheckpointDir = filepath.Join(dir, "missing")

		_, err := engine.Build(context.Background(), cfg)

		Expect(err).To(MatchError(ContainSubstring("checkpoint")))
	})

	It("respects a canceled context before loading", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.Build(ctx, cfg)

		Expect(err).To(MatchError(context.Canceled))
	})
})
