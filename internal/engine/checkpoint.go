package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llamachat/internal/common/fsutil"
)

const checkpointExt = ".gguf"

// FindCheckpoint resolves the weights file for a checkpoint location. The
// location may name a .gguf file directly or a directory holding exactly one.
func FindCheckpoint(location string) (string, error) {
	abs, err := fsutil.Resolve(location)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("checkpoint: %w", err)
	}
	if !fi.IsDir() {
		return abs, nil
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("read checkpoint dir: %w", err)
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), checkpointExt) {
			found = append(found, filepath.Join(abs, e.Name()))
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no %s checkpoint in %s", checkpointExt, abs)
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", fmt.Errorf("multiple checkpoints in %s: %s", abs, strings.Join(found, ", "))
	}
}
