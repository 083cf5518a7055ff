package engine_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"llamachat/internal/engine"
)

func touch(dir, name string) string {
	p := filepath.Join(dir, name)
	Expect(os.WriteFile(p, []byte{}, 0o644)).To(Succeed())
	return p
}

var _ = Describe("FindCheckpoint", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("returns a .gguf file named directly", func() {
		p := touch(dir, "llama-2-7b-chat.Q4_K_M.gguf")

		got, err := engine.FindCheckpoint(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(p))
	})

	It("finds the single .gguf inside a directory", func() {
		touch(dir, "README.md")
		p := touch(dir, "model.GGUF")

		got, err := engine.FindCheckpoint(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(p))
	})

	It("fails when the directory has no checkpoint", func() {
		touch(dir, "params.json")

		_, err := engine.FindCheckpoint(dir)

		Expect(err).To(MatchError(ContainSubstring("no .gguf checkpoint")))
	})

	It("fails when the directory is ambiguous", func() {
		touch(dir, "a.gguf")
		touch(dir, "b.gguf")

		_, err := engine.FindCheckpoint(dir)

		Expect(err).To(MatchError(ContainSubstring("multiple checkpoints")))
	})

	It("fails when the location does not exist", func() {
		_, err := engine.FindCheckpoint(filepath.Join(dir, "missing"))

		Expect(err).To(HaveOccurred())
	})
})
