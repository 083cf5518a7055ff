package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"llamachat/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Respond(ctx context.Context, utterance string) (string, error)
	Ready() bool
}

var (
	errMissingRequest = errors.New(`missing "request" field`)
	errInvalidUTF8    = errors.New("body is not valid UTF-8")
)

// NewMux builds the HTTP handler. Every POST, whatever its path, is a chat request.
func NewMux(svc Service, opts Options) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.CORS {
		r.Use(allowAnyOrigin)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Log-Level", middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	chatFn := chatHandler(svc, opts)
	r.Post("/", chatFn)
	r.Post("/*", chatFn)

	return r
}

// allowAnyOrigin sets the wildcard origin on every response, including ones
// for requests that carry no Origin header.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// chatHandler godoc
//
//	@Summary		Reply to one user utterance
//	@Description	Any POST path is accepted. The reply is a single assistant turn.
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.ChatRequest	true	"user utterance"
//	@Success		200		{object}	types.ChatResponse
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		429		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Router			/ [post]
func chatHandler(svc Service, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lg := opts.requestLogger(r)

		var req types.ChatRequest
		body, err := readBody(w, r, opts.MaxBodyBytes)
		if err == nil {
			req, err = decodeChatRequest(body)
		}
		if err != nil {
			// Oversized bodies land here too; the client only learns the JSON was rejected.
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			lg.Info().Int("status", http.StatusBadRequest).Dur("dur", time.Since(start)).Err(err).Msg("chat rejected")
			return
		}
		lg.Info().Str("path", r.URL.Path).Int("bytes", len(body)).Msg("chat start")
		lg.Debug().Str("request", req.Request).Msg("chat request")
		respond(w, r, svc, req, start, lg)
	}
}

func respond(w http.ResponseWriter, r *http.Request, svc Service, req types.ChatRequest, start time.Time, lg zerolog.Logger) {
	reply, err := svc.Respond(r.Context(), req.Request)
	if err != nil {
		// If context was canceled (client disconnect), just return.
		if r.Context().Err() != nil {
			lg.Info().Dur("dur", time.Since(start)).Err(err).Msg("chat abandoned")
			return
		}
		status := statusFor(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("queue")
		}
		writeJSONError(w, status, err.Error())
		lg.Error().Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("chat end")
		return
	}
	writeJSON(w, http.StatusOK, types.ChatResponse{Response: reply})
	lg.Info().Int("status", http.StatusOK).Dur("dur", time.Since(start)).Msg("chat end")
	lg.Debug().Str("response", reply).Msg("chat reply")
}

// readBody reads the whole body, bounded by limit when positive.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	return io.ReadAll(r.Body)
}

// decodeChatRequest parses the envelope. The body must be UTF-8 and carry the
// exact key "request" with a string value; anything else is reported like a
// syntax error.
func decodeChatRequest(body []byte) (types.ChatRequest, error) {
	if !utf8.Valid(body) {
		return types.ChatRequest{}, errInvalidUTF8
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return types.ChatRequest{}, err
	}
	raw, ok := env["request"]
	if !ok {
		return types.ChatRequest{}, errMissingRequest
	}
	var req *string
	if err := json.Unmarshal(raw, &req); err != nil {
		return types.ChatRequest{}, err
	}
	if req == nil {
		return types.ChatRequest{}, errMissingRequest
	}
	return types.ChatRequest{Request: *req}, nil
}
