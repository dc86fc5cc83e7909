package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// APIPrefix is the versioned route prefix for every API endpoint.
const APIPrefix = "/api/v1"

// Config holds every setting the server reads at startup.
type Config struct {
	Host        string `yaml:"host" toml:"host"`
	Port        string `yaml:"port" toml:"port"`
	DatabaseURL string `yaml:"database_url" toml:"database_url"`

	CacheMaxSize    int `yaml:"cache_max_size" toml:"cache_max_size"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" toml:"cache_ttl_seconds"`

	MaxOperand  int64 `yaml:"max_operand" toml:"max_operand"`
	MaxExponent int64 `yaml:"max_exponent" toml:"max_exponent"`

	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`

	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`

	JWTSecret       string `yaml:"jwt_secret" toml:"jwt_secret"`
	JWTIssuer       string `yaml:"jwt_issuer" toml:"jwt_issuer"`
	JWTAudience     string `yaml:"jwt_audience" toml:"jwt_audience"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" toml:"token_ttl_minutes"`

	AdminUsername string `yaml:"admin_username" toml:"admin_username"`
	AdminPassword string `yaml:"admin_password" toml:"admin_password"`
}

// DevJWTSecret is the default signing secret. It must be overridden outside development.
const DevJWTSecret = "development-insecure-secret-change-me"

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            "8000",
		DatabaseURL:     filepath.Join("data", "math_operations.db"),
		CacheMaxSize:    1000,
		CacheTTLSeconds: 3600,
		MaxOperand:      10000,
		MaxExponent:     10000,
		LogLevel:        "info",
		LogFormat:       "console",
		CORSOrigins:     []string{"*"},
		JWTSecret:       DevJWTSecret,
		JWTIssuer:       "math-operations-api",
		JWTAudience:     "math-operations-clients",
		TokenTTLMinutes: 60,
		AdminUsername:   "admin",
	}
}

// Load builds the configuration from defaults, an optional file and the
// process environment, in that order of precedence. An empty path falls back
// to CONFIG_FILE.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup for testability.
func LoadWithEnv(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path == "" {
		path, _ = lookupEnv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg, lookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%s: unsupported config format (want .yaml, .yml or .toml)", path)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookupEnv func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	integer := func(key string, dst *int) {
		if v, ok := lookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	integer64 := func(key string, dst *int64) {
		if v, ok := lookupEnv(key); ok && v != "" {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}

	str("HOST", &cfg.Host)
	str("PORT", &cfg.Port)
	str("DATABASE_URL", &cfg.DatabaseURL)
	integer("CACHE_MAX_SIZE", &cfg.CacheMaxSize)
	integer("CACHE_TTL_SECONDS", &cfg.CacheTTLSeconds)
	integer64("MAX_OPERAND", &cfg.MaxOperand)
	integer64("MAX_EXPONENT", &cfg.MaxExponent)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("JWT_ISSUER", &cfg.JWTIssuer)
	str("JWT_AUDIENCE", &cfg.JWTAudience)
	integer("TOKEN_TTL_MINUTES", &cfg.TokenTTLMinutes)
	str("ADMIN_USERNAME", &cfg.AdminUsername)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)

	if v, ok := lookupEnv("CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	return errors.Join(errs...)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.CacheMaxSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_max_size must be positive, got %d", c.CacheMaxSize))
	}
	if c.CacheTTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl_seconds must not be negative, got %d", c.CacheTTLSeconds))
	}
	if c.MaxOperand < 0 || c.MaxExponent < 0 {
		errs = append(errs, errors.New("max_operand and max_exponent must not be negative"))
	}
	if c.TokenTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("token_ttl_minutes must be positive, got %d", c.TokenTTLMinutes))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must not be empty"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// TokenTTL returns the admin token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
