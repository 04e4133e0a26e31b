package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Artifacts ArtifactsConfig
	Logger    LoggerConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ArtifactsConfig struct {
	Dir       string
	ModelName string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type AuditConfig struct {
	Enabled  bool
	Timeout  time.Duration
	Database DatabaseConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("ARTIFACT_DIR", "models")
	v.SetDefault("MODEL_NAME", "random_forest")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("AUDIT_ENABLED", false)
	v.SetDefault("AUDIT_TIMEOUT", "5s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "heart_inference")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("METRICS_ENABLED", true)

	// Env
	v.AutomaticEnv()

	auditTimeout, err := time.ParseDuration(v.GetString("AUDIT_TIMEOUT"))
	if err != nil {
		auditTimeout = 5 * time.Second
	}
	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Artifacts: ArtifactsConfig{
			Dir:       v.GetString("ARTIFACT_DIR"),
			ModelName: v.GetString("MODEL_NAME"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Audit: AuditConfig{
			Enabled: v.GetBool("AUDIT_ENABLED"),
			Timeout: auditTimeout,
			Database: DatabaseConfig{
				Host:            v.GetString("DB_HOST"),
				Port:            v.GetInt("DB_PORT"),
				User:            v.GetString("DB_USER"),
				Password:        v.GetString("DB_PASSWORD"),
				Name:            v.GetString("DB_NAME"),
				MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
				MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
				ConnMaxLifetime: connLifetime,
			},
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	return cfg, nil
}
