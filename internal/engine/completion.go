package engine

import (
	"context"
	"fmt"
	"strings"
)

// predictFunc generates a raw continuation for a formatted prompt.
type predictFunc func(ctx context.Context, prompt string, params SamplingParams) (string, error)

// completeBatch validates dialogs against maxBatch and runs predict for each.
// Dialogs carrying template markers get unsafeReply without touching the model.
func completeBatch(ctx context.Context, dialogs []Dialog, maxBatch int, params SamplingParams, predict predictFunc) ([]Completion, error) {
	if maxBatch > 0 && len(dialogs) > maxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(dialogs), maxBatch)
	}
	prompts := make([]string, len(dialogs))
	for i, d := range dialogs {
		if hasSpecialTags(d) {
			continue
		}
		p, err := FormatDialog(d)
		if err != nil {
			return nil, fmt.Errorf("dialog %d: %w", i, err)
		}
		prompts[i] = p
	}
	out := make([]Completion, 0, len(dialogs))
	for i, p := range prompts {
		content := unsafeReply
		if p != "" {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			text, err := predict(ctx, p, params)
			if err != nil {
				return nil, fmt.Errorf("dialog %d: %w", i, err)
			}
			content = strings.TrimSpace(text)
		}
		out = append(out, Completion{Generation: Message{Role: RoleAssistant, Content: content}})
	}
	return out, nil
}
