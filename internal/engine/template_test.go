package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"llamachat/internal/engine"
)

func user(s string) engine.Message {
	return engine.Message{Role: engine.RoleUser, Content: s}
}

func assistant(s string) engine.Message {
	return engine.Message{Role: engine.RoleAssistant, Content: s}
}

func system(s string) engine.Message {
	return engine.Message{Role: engine.RoleSystem, Content: s}
}

var _ = Describe("FormatDialog", func() {
	It("wraps a single user turn in instruction markers", func() {
		p, err := engine.FormatDialog(engine.Dialog{user("hello")})

		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal("[INST] hello [/INST]"))
	})

	It("trims surrounding whitespace from every turn", func() {
		p, err := engine.FormatDialog(engine.Dialog{user("  hello \n")})

		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal("[INST] hello [/INST]"))
	})

	It("closes earlier exchanges and opens a new sequence for the last turn", func() {
		p, err := engine.FormatDialog(engine.Dialog{user("hi"), assistant("hello!"), user("how are you?")})

		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal("[INST] hi [/INST] hello! </s><s>[INST] how are you? [/INST]"))
	})

	It("folds a system message into the first user turn", func() {
		p, err := engine.FormatDialog(engine.Dialog{system("be brief"), user("hi")})

		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal("[INST] <<SYS>>\nbe brief\n<</SYS>>\n\nhi [/INST]"))
	})

	DescribeTable("rejects malformed dialogs",
		func(d engine.Dialog) {
			_, err := engine.FormatDialog(d)
			Expect(err).To(MatchError(engine.ErrInvalidDialog))
		},
		Entry("empty", engine.Dialog{}),
		Entry("system only", engine.Dialog{system("x")}),
		Entry("starts with assistant", engine.Dialog{assistant("x")}),
		Entry("two users in a row", engine.Dialog{user("a"), user("b")}),
		Entry("ends with assistant", engine.Dialog{user("a"), assistant("b")}),
	)
})
