package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/lingorelay/lingorelay/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Platform    sharedConfig.PlatformConfig    `mapstructure:"platform"`
	Translation sharedConfig.TranslationConfig `mapstructure:"translation"`
	Relay       sharedConfig.RelayConfig       `mapstructure:"relay"`
	Auth        sharedConfig.AuthConfig        `mapstructure:"auth"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("LINGORELAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "lingorelay_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Platform defaults (tokens must be configured)
	viper.SetDefault("platform.api_base_url", "https://discord.com/api/v10")
	viper.SetDefault("platform.bot_token", "")
	viper.SetDefault("platform.event_secret", "")

	// Translation defaults
	viper.SetDefault("translation.api_key", "")
	viper.SetDefault("translation.model", "gpt-4o-mini")
	viper.SetDefault("translation.timeout_seconds", 30)

	// Relay defaults
	viper.SetDefault("relay.warning_threshold", 0.8)
	viper.SetDefault("relay.webhook_cache_size", 100)
	viper.SetDefault("relay.webhook_ttl_minutes", 30)
	viper.SetDefault("relay.webhook_sweep_minutes", 5)
	viper.SetDefault("relay.usage_log_retention_days", 400)

	// Auth defaults
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
}
