package httpapi

import "github.com/rs/zerolog"

// Options configures the HTTP layer. The zero value is the baseline variant:
// no CORS header, no body cap, no request logs.
type Options struct {
	// CORS adds Access-Control-Allow-Origin: * to every response and answers preflights.
	CORS bool
	// MaxBodyBytes caps the request body; 0 means no cap.
	MaxBodyBytes int64
	// Logger receives per-request logs. Nil disables them.
	Logger *zerolog.Logger
	// LogLevel is the default per-request level (debug|info|warn|error|off).
	// Empty keeps the logger's own level.
	LogLevel string
}
