package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"llamachat/internal/chat"
	"llamachat/internal/config"
	"llamachat/internal/engine"
	"llamachat/internal/httpapi"
)

const envPrefix = "LLAMACHAT"

// buildEngine is swapped in tests.
var buildEngine = engine.Build

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "llamachat",
		Short:         "Serve single-turn chat replies from a local Llama-2 model",
		Example:       "  llamachat --ckpt-dir llama-2-7b-chat/ --tokenizer-path tokenizer.model --max-seq-len 512 --max-batch-size 6",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)
			if err := serve(cmd.Context(), cfg, logger); err != nil {
				logger.Fatal().Err(err).Msg("llamachat stopped")
			}
			return nil
		},
	}
	defineFlags(root.Flags())
	bindConfig(v, root.Flags())
	return root
}

// bindConfig makes every flag readable through v, with LLAMACHAT_<FLAG> env fallbacks.
func bindConfig(v *viper.Viper, fs *pflag.FlagSet) {
	_ = v.BindPFlags(fs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func defineFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (.yaml, .yml, .json, .toml)")
	fs.String("ckpt-dir", config.DefaultCheckpointDir, "The directory containing checkpoint files for the pretrained model.")
	fs.String("tokenizer-path", config.DefaultTokenizerPath, "The path to the tokenizer model used for text encoding/decoding.")
	fs.Int("max-seq-len", config.DefaultMaxSeqLen, "The maximum sequence length for input prompts. Defaults to 512.")
	fs.Int("max-batch-size", config.DefaultMaxBatchSize, "The maximum batch size for generating sequences. Defaults to 8.")
	fs.String("addr", config.DefaultAddr, "HTTP listen address")
	fs.Bool("cors", false, "Send Access-Control-Allow-Origin: * on every response")
	fs.String("log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error|off")
	fs.Int64("max-body-bytes", 0, "Maximum request body size in bytes (0 = unlimited)")
	fs.Int("queue-depth", config.DefaultQueueDepth, "Requests allowed to wait for the generation slot")
	fs.Int("max-wait-sec", config.DefaultMaxWaitSec, "Seconds a request may wait for the generation slot before 429")
	fs.Int("threads", 0, "llama.cpp threads (0 = backend default)")
	fs.Int("gpu-layers", 0, "Layers to offload to the GPU (0 = none)")
}

// resolveConfig layers defaults, the config file, LLAMACHAT_* env and flags, lowest first.
func resolveConfig(v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if path := v.GetString("config"); path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = fileCfg
	}
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	setString("addr", &cfg.Addr)
	setString("ckpt-dir", &cfg.CheckpointDir)
	setString("tokenizer-path", &cfg.TokenizerPath)
	setInt("max-seq-len", &cfg.MaxSeqLen)
	setInt("max-batch-size", &cfg.MaxBatchSize)
	setString("log-level", &cfg.LogLevel)
	setInt("queue-depth", &cfg.QueueDepth)
	setInt("max-wait-sec", &cfg.MaxWaitSec)
	setInt("threads", &cfg.Threads)
	setInt("gpu-layers", &cfg.GPULayers)
	if v.IsSet("cors") {
		cfg.CORS = v.GetBool("cors")
	}
	if v.IsSet("max-body-bytes") {
		cfg.MaxBodyBytes = v.GetInt64("max-body-bytes")
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(level, "off") {
		lvl = zerolog.Disabled
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// newServer builds the engine and the handler. The engine is fully loaded
// before this returns; nothing is listening yet.
func newServer(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*http.Server, engine.Engine, error) {
	logger.Info().
		Str("ckpt_dir", cfg.CheckpointDir).
		Str("tokenizer_path", cfg.TokenizerPath).
		Int("max_seq_len", cfg.MaxSeqLen).
		Int("max_batch_size", cfg.MaxBatchSize).
		Bool("llama_built", engine.Available()).
		Msg("loading model")
	start := time.Now()
	eng, err := buildEngine(ctx, engine.BuildConfig{
		CheckpointDir: cfg.CheckpointDir,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
		MaxBatchSize:  cfg.MaxBatchSize,
		Threads:       cfg.Threads,
		GPULayers:     cfg.GPULayers,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}
	logger.Info().Dur("dur", time.Since(start)).Msg("model loaded")

	responder := chat.New(eng, chat.Options{
		Logger:     &logger,
		QueueDepth: cfg.QueueDepth,
		MaxWait:    cfg.MaxWait(),
	})
	handler := httpapi.NewMux(responder, httpapi.Options{
		CORS:         cfg.CORS,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       &logger,
		LogLevel:     cfg.LogLevel,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}
	return srv, eng, nil
}

// serve loads the engine, then binds the listener and serves until the listener fails.
func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	srv, eng, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	logger.Info().Str("addr", ln.Addr().String()).Bool("cors", cfg.CORS).Msg("server is running")
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
