//go:build !llama

package engine_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"llamachat/internal/engine"
)

var _ = Describe("Build without the llama tag", func() {
	It("reports the backend as unavailable", func() {
		dir := GinkgoT().TempDir()
		touch(dir, "model.gguf")
		_, err := engine.Build(context.Background(), engine.BuildConfig{
			CheckpointDir: dir,
			TokenizerPath: touch(dir, "tokenizer.model"),
			MaxSeqLen:     512,
			MaxBatchSize:  6,
		})

		Expect(err).To(HaveOccurred())
		Expect(engine.IsDependencyUnavailable(err)).To(BeTrue())
		Expect(engine.Available()).To(BeFalse())
	})
})
