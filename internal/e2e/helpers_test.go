//go:build llama

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"llamachat/internal/chat"
	"llamachat/internal/engine"
	"llamachat/internal/httpapi"
	"llamachat/pkg/types"
)

// liveServer loads the checkpoint named by LLAMACHAT_E2E_CKPT and serves it.
// Skips unless that file exists.
func liveServer(t *testing.T, cors bool) *httptest.Server {
	t.Helper()
	ckpt := strings.TrimSpace(os.Getenv("LLAMACHAT_E2E_CKPT"))
	if ckpt == "" {
		t.Skip("LLAMACHAT_E2E_CKPT not set; skipping live model test")
	}
	if _, err := os.Stat(ckpt); err != nil {
		t.Skipf("checkpoint %s not readable: %v", ckpt, err)
	}
	tok := strings.TrimSpace(os.Getenv("LLAMACHAT_E2E_TOKENIZER"))
	if tok == "" {
		tok = ckpt
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	eng, err := engine.Build(ctx, engine.BuildConfig{
		CheckpointDir: ckpt,
		TokenizerPath: tok,
		MaxSeqLen:     512,
		MaxBatchSize:  6,
	})
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })

	responder := chat.New(eng, chat.Options{Transcript: io.Discard, MaxWait: 5 * time.Minute})
	srv := httptest.NewServer(httpapi.NewMux(responder, httpapi.Options{CORS: cors}))
	t.Cleanup(srv.Close)
	return srv
}

func postChat(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func decodeReply(t *testing.T, b []byte) types.ChatResponse {
	t.Helper()
	var out types.ChatResponse
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode %q: %v", string(b), err)
	}
	return out
}
