// Package config provides centralized configuration management for the
// RiskWatch pipeline and dashboard.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the master configuration struct for both binaries.
type Config struct {
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PipelineConfig holds batch scoring job configuration.
type PipelineConfig struct {
	LogonPath  string       `mapstructure:"logon_path"`
	HTTPPath   string       `mapstructure:"http_path"`
	DevicePath string       `mapstructure:"device_path"`
	OutputPath string       `mapstructure:"output_path"`
	Model      ModelConfig  `mapstructure:"model"`
	Spikes     SpikesConfig `mapstructure:"spikes"`
}

// ModelConfig holds isolation forest parameters.
type ModelConfig struct {
	Trees         int     `mapstructure:"trees"`
	SampleSize    int     `mapstructure:"sample_size"`
	Contamination float64 `mapstructure:"contamination"`
	Seed          int64   `mapstructure:"seed"`
}

// SpikesConfig holds the z-score cutoff used to derive boolean spike flags.
type SpikesConfig struct {
	ZThreshold float64 `mapstructure:"z_threshold"`
}

// DashboardConfig holds dashboard service configuration.
type DashboardConfig struct {
	Server    ServerConfig  `mapstructure:"server"`
	DataPath  string        `mapstructure:"data_path"`
	StaticDir string        `mapstructure:"static_dir"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Auth      AuthConfig    `mapstructure:"auth"`
	CORS      CORSConfig    `mapstructure:"cors"`
}

// AuthConfig holds optional single-admin basic auth for the dashboard.
// When PasswordHash is empty the dashboard is open.
type AuthConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt
}

// CORSConfig holds allowed origins for cross-origin front-end development.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from $RISKWATCH_CONFIG_DIR/config.yaml and
// environment variables. A missing config file is not an error; defaults
// and env vars apply.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	configDir := os.Getenv("RISKWATCH_CONFIG_DIR")
	if configDir == "" {
		configDir = "/etc/riskwatch"
	}

	configPath := fmt.Sprintf("%s/config.yaml", configDir)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("RISKWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
		// Config file not found - continue with defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads the configuration and panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	// Pipeline defaults
	v.SetDefault("pipeline.logon_path", "logon.csv")
	v.SetDefault("pipeline.http_path", "http.csv")
	v.SetDefault("pipeline.device_path", "device.csv")
	v.SetDefault("pipeline.output_path", "user_risk_analysis.csv")
	v.SetDefault("pipeline.model.trees", 200)
	v.SetDefault("pipeline.model.sample_size", 256)
	v.SetDefault("pipeline.model.contamination", 0.02)
	v.SetDefault("pipeline.model.seed", 42)
	v.SetDefault("pipeline.spikes.z_threshold", 2.0)

	// Dashboard defaults
	v.SetDefault("dashboard.server.port", 8090)
	v.SetDefault("dashboard.server.read_timeout", "15s")
	v.SetDefault("dashboard.server.write_timeout", "60s")
	v.SetDefault("dashboard.server.idle_timeout", "60s")
	v.SetDefault("dashboard.data_path", "user_risk_analysis.csv")
	v.SetDefault("dashboard.static_dir", "./static")
	v.SetDefault("dashboard.cache_ttl", "300s")
	v.SetDefault("dashboard.auth.username", "admin")
	v.SetDefault("dashboard.auth.password_hash", "")
	v.SetDefault("dashboard.cors.allowed_origins", []string{"http://localhost:5173"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
