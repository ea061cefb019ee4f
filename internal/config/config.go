package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type ReviewConfig struct {
	AutomatedDelay time.Duration
	AuthorityDelay time.Duration
}

type StorageConfig struct {
	Driver string
}

type FilesConfig struct {
	MaxAttachmentsPerAppeal int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Review      ReviewConfig
	Storage     StorageConfig
	Files       FilesConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Review: ReviewConfig{
			AutomatedDelay: v.GetDuration("REVIEW_AUTOMATED_DELAY"),
			AuthorityDelay: v.GetDuration("REVIEW_AUTHORITY_DELAY"),
		},
		Storage: StorageConfig{
			Driver: v.GetString("STORAGE_DRIVER"),
		},
		Files: FilesConfig{
			MaxAttachmentsPerAppeal: v.GetInt("APPEAL_MAX_ATTACHMENTS"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Review.AutomatedDelay <= 0 {
		cfg.Review.AutomatedDelay = 5 * time.Second
	}
	if cfg.Review.AuthorityDelay <= 0 {
		cfg.Review.AuthorityDelay = 3 * time.Second
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverPostgres
	}
	if cfg.Files.MaxAttachmentsPerAppeal <= 0 {
		cfg.Files.MaxAttachmentsPerAppeal = 5
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch cfg.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required when STORAGE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return nil
}
