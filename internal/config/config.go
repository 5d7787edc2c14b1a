package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	Env         string `yaml:"env" validate:"required"`
	FrontendURL string `yaml:"frontendURL"`
	APIVersion  string `yaml:"apiVersion" validate:"required"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" validate:"required"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

// AuthConfig points at the external identity provider. Tokens are verified
// against JWKSURL when set, otherwise against JWTSecret.
type AuthConfig struct {
	URL               string        `yaml:"url" validate:"required,url"`
	AnonKey           string        `yaml:"anonKey" validate:"required"`
	JWKSURL           string        `yaml:"jwksURL" validate:"omitempty,url"`
	JWTSecret         string        `yaml:"jwtSecret"`
	PrincipalCacheTTL time.Duration `yaml:"principalCacheTTL" validate:"min=0s"`
}

type StorageConfig struct {
	Endpoint     string `yaml:"endpoint" validate:"required"`
	AccessKey    string `yaml:"accessKey" validate:"required"`
	SecretKey    string `yaml:"secretKey" validate:"required"`
	UseSSL       bool   `yaml:"useSSL"`
	ExportBucket string `yaml:"exportBucket" validate:"required"`
}

type AnalyticsConfig struct {
	FlushInterval time.Duration `yaml:"flushInterval" validate:"min=1s"`
	BufferSize    int           `yaml:"bufferSize" validate:"min=1"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Defaults returns the configuration used for anything not set explicitly.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3000,
			Env:         "development",
			FrontendURL: "http://localhost:5173",
			APIVersion:  "v1",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Auth:  AuthConfig{PrincipalCacheTTL: 5 * time.Minute},
		Storage: StorageConfig{
			Endpoint:     "localhost:9000",
			ExportBucket: "schedulepro-exports",
		},
		Analytics: AnalyticsConfig{
			FlushInterval: 10 * time.Second,
			BufferSize:    1000,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate validates the configuration struct and the auth key source
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Auth.JWKSURL == "" && cfg.Auth.JWTSecret == "" {
		return errors.New("config validation failed: AUTH_JWKS_URL or AUTH_JWT_SECRET is required")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// AllowedOrigins splits FrontendURL on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.FrontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	stringVars := map[string]*string{
		"APP_ENV":          &cfg.Server.Env,
		"FRONTEND_URL":     &cfg.Server.FrontendURL,
		"API_VERSION":      &cfg.Server.APIVersion,
		"LOG_LEVEL":        &cfg.Log.Level,
		"DATABASE_URL":     &cfg.Database.URL,
		"REDIS_ADDR":       &cfg.Redis.Addr,
		"REDIS_PASSWORD":   &cfg.Redis.Password,
		"AUTH_URL":         &cfg.Auth.URL,
		"AUTH_ANON_KEY":    &cfg.Auth.AnonKey,
		"AUTH_JWKS_URL":    &cfg.Auth.JWKSURL,
		"AUTH_JWT_SECRET":  &cfg.Auth.JWTSecret,
		"MINIO_ENDPOINT":   &cfg.Storage.Endpoint,
		"MINIO_ACCESS_KEY": &cfg.Storage.AccessKey,
		"MINIO_SECRET_KEY": &cfg.Storage.SecretKey,
		"EXPORT_BUCKET":    &cfg.Storage.ExportBucket,
	}
	for key, dst := range stringVars {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":                  &cfg.Server.Port,
		"REDIS_DB":              &cfg.Redis.DB,
		"ANALYTICS_BUFFER_SIZE": &cfg.Analytics.BufferSize,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"PRINCIPAL_CACHE_TTL":      &cfg.Auth.PrincipalCacheTTL,
		"ANALYTICS_FLUSH_INTERVAL": &cfg.Analytics.FlushInterval,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup("MINIO_USE_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
		}
		cfg.Storage.UseSSL = b
	}
	return nil
}
