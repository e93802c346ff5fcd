package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// PlatformConfig holds credentials for the chat platform REST API.
type PlatformConfig struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	BotToken   string `mapstructure:"bot_token"`
	// EventSecret authenticates inbound event posts from the platform collaborator.
	EventSecret string `mapstructure:"event_secret"`
}

// TranslationConfig holds settings for the external translation provider.
type TranslationConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RelayConfig holds tunables for the relay pipeline and delivery cache.
type RelayConfig struct {
	WarningThreshold      float64 `mapstructure:"warning_threshold"`
	WebhookCacheSize      int     `mapstructure:"webhook_cache_size"`
	WebhookTTLMinutes     int     `mapstructure:"webhook_ttl_minutes"`
	WebhookSweepMinutes   int     `mapstructure:"webhook_sweep_minutes"`
	UsageLogRetentionDays int     `mapstructure:"usage_log_retention_days"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}
