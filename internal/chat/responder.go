package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"llamachat/internal/engine"
)

// Fixed sampling policy.
const (
	Temperature = 0.6
	TopP        = 0.9
)

// FallbackReply is returned when the engine produces no completion.
const FallbackReply = "I do not understand the request!!!"

const transcriptSeparator = "=================================="

const (
	defaultQueueDepth = 32
	defaultMaxWait    = 30 * time.Second
)

// Options tunes a Responder. Zero values select defaults.
type Options struct {
	// Transcript receives the human-readable turn log. Defaults to os.Stdout.
	Transcript io.Writer
	// Logger receives structured per-generation logs. Nil disables them.
	Logger *zerolog.Logger
	// QueueDepth bounds requests waiting for the generation slot.
	QueueDepth int
	// MaxWait bounds how long a request waits for a queue slot and then for the generation slot.
	MaxWait time.Duration
}

// Responder turns one user utterance into one assistant reply.
type Responder struct {
	eng        engine.Engine
	params     engine.SamplingParams
	gate       *gate
	transcript io.Writer
	log        zerolog.Logger
}

// New wraps an already-built engine.
func New(eng engine.Engine, opts Options) *Responder {
	r := &Responder{
		eng:        eng,
		params:     engine.SamplingParams{Temperature: Temperature, TopP: TopP},
		gate:       newGate(opts.QueueDepth, opts.MaxWait),
		transcript: opts.Transcript,
		log:        zerolog.Nop(),
	}
	if r.transcript == nil {
		r.transcript = os.Stdout
	}
	if opts.Logger != nil {
		r.log = *opts.Logger
	}
	return r
}

// Ready reports whether an engine is attached.
func (r *Responder) Ready() bool { return r != nil && r.eng != nil }

// Respond submits utterance as a single-turn dialog and returns the first
// completion, or FallbackReply when there is none. Calls are serialized.
func (r *Responder) Respond(ctx context.Context, utterance string) (string, error) {
	release, err := r.gate.acquire(ctx)
	if err != nil {
		if IsTooBusy(err) {
			generationsTotal.WithLabelValues(outcomeBusy).Inc()
		}
		return "", err
	}
	defer release()
	queueLength.Set(float64(r.gate.queued()))
	defer func() { queueLength.Set(float64(r.gate.queued() - 1)) }()

	dialogs := []engine.Dialog{{{Role: engine.RoleUser, Content: utterance}}}
	r.printf("> user: %s\n", utterance)

	start := time.Now()
	results, err := r.eng.ChatCompletion(ctx, dialogs, r.params)
	dur := time.Since(start)
	generationDuration.Observe(dur.Seconds())
	if err != nil {
		generationsTotal.WithLabelValues(outcomeError).Inc()
		r.log.Error().Err(err).Dur("dur", dur).Msg("generation failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}

	for _, res := range results {
		r.printf("> %s: %s\n", capitalize(string(res.Generation.Role)), res.Generation.Content)
	}
	r.printf("\n%s\n\n", transcriptSeparator)

	if len(results) == 0 {
		generationsTotal.WithLabelValues(outcomeFallback).Inc()
		r.log.Warn().Dur("dur", dur).Msg("engine returned no completions")
		return FallbackReply, nil
	}
	generationsTotal.WithLabelValues(outcomeOK).Inc()
	r.log.Debug().Dur("dur", dur).Int("reply_len", len(results[0].Generation.Content)).Msg("generation done")
	return results[0].Generation.Content, nil
}

// printf writes to the transcript; failures are ignored.
func (r *Responder) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.transcript, format, a...)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
