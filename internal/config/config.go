package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	// ReplyCacheTTL is minutes a cached reply stays valid; 0 disables caching.
	ReplyCacheTTL int `json:"reply_cache_ttl"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	UploadDir     string `json:"upload_dir"`
	FrameDir      string `json:"frame_dir"`
	// FrameCount is how many stills the sampler extracts per video.
	FrameCount int `json:"frame_count"`
	// MediaTimeout bounds each ffprobe/ffmpeg invocation, in seconds.
	MediaTimeout int `json:"media_timeout"`
	// ChatTimeout bounds the model call, in seconds.
	ChatTimeout int `json:"chat_timeout"`
	// OrphanTTL is minutes before the sweeper reclaims leftover uploads.
	OrphanTTL     int `json:"orphan_ttl"`
	SweepInterval int `json:"sweep_interval"`
	MinWorkers    int `json:"min_workers"`
	MaxWorkers    int `json:"max_workers"`
	// WorkerIdleTimeout is minutes before surplus idle workers retire.
	WorkerIdleTimeout int `json:"worker_idle_timeout"`
}

// Provider API keys may also come from the environment; env wins over the
// config file so keys can stay out of it.
var providerKeyEnv = map[string]string{
	"gemini": "GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	for provider, envKey := range providerKeyEnv {
		if v := os.Getenv(envKey); v != "" {
			provCfg := cfg.Providers[provider]
			provCfg.APIKey = v
			cfg.Providers[provider] = provCfg
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	b := &c.BasicConfig
	if b.ServerAddress == "" {
		b.ServerAddress = ":3000"
	}
	if b.UploadDir == "" {
		b.UploadDir = "./uploads"
	}
	if b.FrameDir == "" {
		b.FrameDir = filepath.Join(os.TempDir(), "chatlens-frames")
	}
	if b.FrameCount <= 0 {
		b.FrameCount = 3
	}
	if b.MediaTimeout <= 0 {
		b.MediaTimeout = 30
	}
	if b.ChatTimeout <= 0 {
		b.ChatTimeout = 120
	}
	if b.OrphanTTL <= 0 {
		b.OrphanTTL = 60
	}
	if b.SweepInterval <= 0 {
		b.SweepInterval = 15
	}
	if b.MinWorkers <= 0 {
		b.MinWorkers = 2
	}
	if b.MaxWorkers < b.MinWorkers {
		b.MaxWorkers = b.MinWorkers * 4
	}
	if b.WorkerIdleTimeout <= 0 {
		b.WorkerIdleTimeout = 1
	}
}
