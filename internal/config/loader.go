package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults used when a field is left unspecified.
const (
	DefaultAddr          = ":8000"
	DefaultCheckpointDir = "llama-2-7b-chat/"
	DefaultTokenizerPath = "tokenizer.model"
	DefaultMaxSeqLen     = 512
	DefaultMaxBatchSize  = 6
	DefaultLogLevel      = "info"
	DefaultQueueDepth    = 32
	DefaultMaxWaitSec    = 30
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified"; WithDefaults fills them in.
type Config struct {
	Addr          string `json:"addr" yaml:"addr" toml:"addr" mapstructure:"addr"`
	CheckpointDir string `json:"ckpt_dir" yaml:"ckpt_dir" toml:"ckpt_dir" mapstructure:"ckpt_dir"`
	TokenizerPath string `json:"tokenizer_path" yaml:"tokenizer_path" toml:"tokenizer_path" mapstructure:"tokenizer_path"`
	MaxSeqLen     int    `json:"max_seq_len" yaml:"max_seq_len" toml:"max_seq_len" mapstructure:"max_seq_len"`
	MaxBatchSize  int    `json:"max_batch_size" yaml:"max_batch_size" toml:"max_batch_size" mapstructure:"max_batch_size"`
	CORS          bool   `json:"cors" yaml:"cors" toml:"cors" mapstructure:"cors"`
	LogLevel      string `json:"log_level" yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
	// MaxBodyBytes caps the request body; 0 reads whatever Content-Length says.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" mapstructure:"max_body_bytes"`
	QueueDepth   int   `json:"queue_depth" yaml:"queue_depth" toml:"queue_depth" mapstructure:"queue_depth"`
	MaxWaitSec   int   `json:"max_wait_sec" yaml:"max_wait_sec" toml:"max_wait_sec" mapstructure:"max_wait_sec"`
	// llama.cpp tuning; 0 keeps the backend default.
	Threads   int `json:"threads" yaml:"threads" toml:"threads" mapstructure:"threads"`
	GPULayers int `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers" mapstructure:"gpu_layers"`
}

// Default returns the fixed configuration used when nothing is supplied.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with every unspecified field set to its default.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.CheckpointDir == "" {
		c.CheckpointDir = DefaultCheckpointDir
	}
	if c.TokenizerPath == "" {
		c.TokenizerPath = DefaultTokenizerPath
	}
	if c.MaxSeqLen == 0 {
		c.MaxSeqLen = DefaultMaxSeqLen
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = DefaultQueueDepth
	}
	if c.MaxWaitSec <= 0 {
		c.MaxWaitSec = DefaultMaxWaitSec
	}
	return c
}

// MaxWait is the admission wait as a duration.
func (c Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitSec) * time.Second
}

// Validate checks the four engine parameters. Serving fields are not validated.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CheckpointDir) == "" {
		errs = append(errs, errors.New("checkpoint directory is required"))
	}
	if strings.TrimSpace(c.TokenizerPath) == "" {
		errs = append(errs, errors.New("tokenizer path is required"))
	}
	if c.MaxSeqLen <= 0 {
		errs = append(errs, fmt.Errorf("max sequence length must be positive, got %d", c.MaxSeqLen))
	}
	if c.MaxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("max batch size must be positive, got %d", c.MaxBatchSize))
	}
	return errors.Join(errs...)
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
