package engine

import (
	"fmt"
	"strings"
)

// Llama-2 chat markers.
const (
	instOpen  = "[INST]"
	instClose = "[/INST]"
	sysOpen   = "<<SYS>>\n"
	sysClose  = "\n<</SYS>>\n\n"
	bos       = "<s>"
	eos       = "</s>"
)

// unsafeReply is returned in place of a generation when a message smuggles template markers.
const unsafeReply = "Error: special tags are not allowed as part of the prompt."

var specialTags = []string{instOpen, instClose, "<<SYS>>", "<</SYS>>"}

// hasSpecialTags reports whether any message content contains a template marker.
func hasSpecialTags(d Dialog) bool {
	for _, m := range d {
		for _, tag := range specialTags {
			if strings.Contains(m.Content, tag) {
				return true
			}
		}
	}
	return false
}

// ValidateDialog checks that d alternates user/assistant (after an optional
// leading system message) and ends with a user turn.
func ValidateDialog(d Dialog) error {
	if len(d) > 0 && d[0].Role == RoleSystem {
		d = d[1:]
	}
	if len(d) == 0 {
		return fmt.Errorf("%w: no user message", ErrInvalidDialog)
	}
	for i, m := range d {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if m.Role != want {
			return fmt.Errorf("%w: message %d has role %q, want %q", ErrInvalidDialog, i, m.Role, want)
		}
	}
	if d[len(d)-1].Role != RoleUser {
		return fmt.Errorf("%w: last message must be from user", ErrInvalidDialog)
	}
	return nil
}

// FormatDialog renders d with the Llama-2 chat template. The leading BOS is
// omitted because the backend prepends it when tokenizing.
func FormatDialog(d Dialog) (string, error) {
	if err := ValidateDialog(d); err != nil {
		return "", err
	}
	msgs := append(Dialog(nil), d...)
	if msgs[0].Role == RoleSystem {
		msgs = append(Dialog{{
			Role:    RoleUser,
			Content: sysOpen + msgs[0].Content + sysClose + msgs[1].Content,
		}}, msgs[2:]...)
	}
	var b strings.Builder
	for i := 0; i+1 < len(msgs); i += 2 {
		if i > 0 {
			b.WriteString(bos)
		}
		fmt.Fprintf(&b, "%s %s %s %s %s",
			instOpen, strings.TrimSpace(msgs[i].Content), instClose, strings.TrimSpace(msgs[i+1].Content), eos)
	}
	if len(msgs) > 1 {
		b.WriteString(bos)
	}
	fmt.Fprintf(&b, "%s %s %s", instOpen, strings.TrimSpace(msgs[len(msgs)-1].Content), instClose)
	return b.String(), nil
}
