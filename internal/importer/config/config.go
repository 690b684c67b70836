package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/joho/godotenv"
)

// Environment variables that override credentials from the config file.
const (
	EnvRemoteBaseURL  = "IMPORTER_REMOTE_BASE_URL"
	EnvRemoteUsername = "IMPORTER_REMOTE_USERNAME"
	EnvRemotePassword = "IMPORTER_REMOTE_PASSWORD"
)

// Config holds importer configuration
type Config struct {
	App    AppConfig     `json:"app" yaml:"app"`
	Remote RemoteConfig  `json:"remote" yaml:"remote"`
	Upload UploadConfig  `json:"upload" yaml:"upload"`
	Dedup  DedupConfig   `json:"dedup" yaml:"dedup"`
	Pacing PacingConfig  `json:"pacing" yaml:"pacing"`
	State  StateConfig   `json:"state" yaml:"state"`
	Redis  RedisConfig   `json:"redis" yaml:"redis"`
	Stub   StubConfig    `json:"stub" yaml:"stub"`
	Logger logger.Config `json:"logger" yaml:"logger"`
}

type AppConfig struct {
	NodeID       int64  `json:"node_id" yaml:"node_id"`
	DatasetsFile string `json:"datasets_file" yaml:"datasets_file"`
}

type RemoteConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	TimeoutMS int    `json:"timeout_ms" yaml:"timeout_ms"`
}

type UploadConfig struct {
	MaxRetries     int `json:"max_retries" yaml:"max_retries"`
	BaseDelayMS    int `json:"base_delay_ms" yaml:"base_delay_ms"`
	ChunkDelayMS   int `json:"chunk_delay_ms" yaml:"chunk_delay_ms"`
	FixedChunkRows int `json:"fixed_chunk_rows" yaml:"fixed_chunk_rows"` // 0 uses the bracket table
}

type DedupConfig struct {
	Enabled                 bool     `json:"enabled" yaml:"enabled"`
	LookupDelayMS           int      `json:"lookup_delay_ms" yaml:"lookup_delay_ms"`
	NameSynonyms            []string `json:"name_synonyms" yaml:"name_synonyms"`
	BreakerFailureThreshold int      `json:"breaker_failure_threshold" yaml:"breaker_failure_threshold"`
	BreakerOpenTimeoutMS    int      `json:"breaker_open_timeout_ms" yaml:"breaker_open_timeout_ms"`
}

type PacingConfig struct {
	BatchSize     int `json:"batch_size" yaml:"batch_size"`
	FileDelayMS   int `json:"file_delay_ms" yaml:"file_delay_ms"`
	BatchDelayMS  int `json:"batch_delay_ms" yaml:"batch_delay_ms"`
	SettleDelayMS int `json:"settle_delay_ms" yaml:"settle_delay_ms"`
}

type StateConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// RedisConfig enables the stats mirror and the redis run-id clock when Addr is set.
type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

type StubConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c RemoteConfig) Timeout() time.Duration { return ms(c.TimeoutMS) }
func (c UploadConfig) BaseDelay() time.Duration { return ms(c.BaseDelayMS) }
func (c UploadConfig) ChunkDelay() time.Duration { return ms(c.ChunkDelayMS) }
func (c DedupConfig) LookupDelay() time.Duration { return ms(c.LookupDelayMS) }
func (c DedupConfig) BreakerOpenTimeout() time.Duration { return ms(c.BreakerOpenTimeoutMS) }
func (c PacingConfig) FileDelay() time.Duration { return ms(c.FileDelayMS) }
func (c PacingConfig) BatchDelay() time.Duration { return ms(c.BatchDelayMS) }
func (c PacingConfig) SettleDelay() time.Duration { return ms(c.SettleDelayMS) }

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			NodeID:       1,
			DatasetsFile: filepath.Join("internal", "importer", "config", "datasets.yaml"),
		},
		Remote: RemoteConfig{
			BaseURL:   "http://localhost:8787/api",
			TimeoutMS: 30000,
		},
		Upload: UploadConfig{
			MaxRetries:   3,
			BaseDelayMS:  5000,
			ChunkDelayMS: 1500,
		},
		Dedup: DedupConfig{
			Enabled:                 true,
			LookupDelayMS:           100,
			NameSynonyms:            []string{"name", "product", "名称", "品名", "产品"},
			BreakerFailureThreshold: 5,
			BreakerOpenTimeoutMS:    30000,
		},
		Pacing: PacingConfig{
			BatchSize:     5,
			FileDelayMS:   1200,
			BatchDelayMS:  15000,
			SettleDelayMS: 3000,
		},
		State: StateConfig{
			Dir: "state",
		},
		Redis: RedisConfig{
			KeyPrefix: "importer:stats",
		},
		Stub: StubConfig{
			Addr:     ":8787",
			Username: "admin",
			Password: "admin",
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Remote.BaseURL == "" {
		errs = append(errs, errors.New("remote.base_url is required"))
	}
	if c.Upload.MaxRetries < 0 {
		errs = append(errs, errors.New("upload.max_retries must be >= 0"))
	}
	if c.Upload.FixedChunkRows < 0 {
		errs = append(errs, errors.New("upload.fixed_chunk_rows must be >= 0"))
	}
	if c.Pacing.BatchSize <= 0 {
		errs = append(errs, errors.New("pacing.batch_size must be > 0"))
	}
	if c.State.Dir == "" {
		errs = append(errs, errors.New("state.dir is required"))
	}
	return errors.Join(errs...)
}

// Load loads configuration from file, then applies credentials from the environment
// (and from a .env file in the working directory when present).
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "importer", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		// Logger is not initialized yet.
		if path != "" {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
		log.Printf("Config file %s not loaded, using defaults: %v", configPath, err)
		parsedCfg = cfg
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(parsedCfg)

	if err := parsedCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return parsedCfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRemoteBaseURL); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv(EnvRemoteUsername); v != "" {
		cfg.Remote.Username = v
	}
	if v := os.Getenv(EnvRemotePassword); v != "" {
		cfg.Remote.Password = v
	}
}
