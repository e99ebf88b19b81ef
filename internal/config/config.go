// Package config loads runtime configuration for AgriLens Core.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env     string `mapstructure:"env"`
	DataDir string `mapstructure:"data_dir"`
}

type StoreConf struct {
	// Backend selects the persistent store: "sqlite" (default) or "memory"
	// for hosts without durable filesystem access.
	Backend string `mapstructure:"backend"`
}

type SyncConf struct {
	UploadTimeoutSeconds int  `mapstructure:"upload_timeout_seconds"`
	StartupSync          bool `mapstructure:"startup_sync"`
	IntervalMinutes      int  `mapstructure:"interval_minutes"`
}

type AnalysisConf struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

type AWSConf struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
}

type Config struct {
	App      AppConf      `mapstructure:"app"`
	Store    StoreConf    `mapstructure:"store"`
	Sync     SyncConf     `mapstructure:"sync"`
	Analysis AnalysisConf `mapstructure:"analysis"`
	AWS      AWSConf      `mapstructure:"aws"`

	// derived
	UploadTimeout time.Duration
	SyncInterval  time.Duration
}

// Load reads the config file at path and applies defaults. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with defaults only, for embedders that configure
// the core programmatically.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = ".agrilens"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Sync.UploadTimeoutSeconds == 0 {
		cfg.Sync.UploadTimeoutSeconds = 30
	}
	if cfg.Sync.IntervalMinutes == 0 {
		cfg.Sync.IntervalMinutes = 15
	}
	cfg.UploadTimeout = time.Duration(cfg.Sync.UploadTimeoutSeconds) * time.Second
	cfg.SyncInterval = time.Duration(cfg.Sync.IntervalMinutes) * time.Minute
}
