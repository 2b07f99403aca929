package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultEnvironment      = "local"
	defaultReadHeader       = 10 * time.Second
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultRequestTimeout   = 30 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultCatalogCacheTTL  = 2 * time.Minute
	defaultStorageQuota     = 5 << 20
	defaultStorageTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval  = 10 * time.Minute
	defaultCleanupBatchSize = 500
	defaultFallbackLocale   = "en"
)

// Config captures runtime configuration of the storefront organised by concern.
type Config struct {
	Server   ServerConfig
	Paths    PathsConfig
	Services ServicesConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Storage  StorageConfig
	Locale   LocaleConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port              string
	Environment       string
	DevMode           bool
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

// PathsConfig points at on-disk assets.
type PathsConfig struct {
	Templates string
	Public    string
	Locales   string
}

// ServicesConfig holds backend base URLs. Empty URLs select offline fallbacks.
type ServicesConfig struct {
	ProductsURL string
	OrdersURL   string
	UsersURL    string
}

// CatalogConfig controls the catalog provider.
type CatalogConfig struct {
	CacheTTL time.Duration
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// StorageConfig controls the per-session key/value store.
type StorageConfig struct {
	QuotaBytes       int
	TTL              time.Duration
	CleanupInterval  time.Duration
	CleanupBatchSize int
}

// LocaleConfig lists supported languages.
type LocaleConfig struct {
	Fallback  string
	Supported []string
}

// IsProd reports whether the storefront runs in production.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Server.Environment, "prod")
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "GOCART_WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}
	env := strings.ToLower(stringWithDefault(lookup, "GOCART_WEB_ENV", defaultEnvironment))

	cfg := Config{
		Server: ServerConfig{
			Port:              port,
			Environment:       env,
			DevMode:           boolWithDefault(lookup, "GOCART_WEB_DEV", false),
			ReadHeaderTimeout: durationWithDefault(lookup, "GOCART_WEB_READ_HEADER_TIMEOUT", defaultReadHeader),
			ReadTimeout:       durationWithDefault(lookup, "GOCART_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, "GOCART_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "GOCART_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:    durationWithDefault(lookup, "GOCART_WEB_REQUEST_TIMEOUT", defaultRequestTimeout),
			ShutdownTimeout:   durationWithDefault(lookup, "GOCART_WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Paths: PathsConfig{
			Templates: stringWithDefault(lookup, "GOCART_WEB_TEMPLATES_DIR", "templates"),
			Public:    stringWithDefault(lookup, "GOCART_WEB_PUBLIC_DIR", "public"),
			Locales:   stringWithDefault(lookup, "GOCART_WEB_LOCALES_DIR", "locales"),
		},
		Services: ServicesConfig{
			ProductsURL: stringWithDefault(lookup, "GOCART_PRODUCTS_API_URL", ""),
			OrdersURL:   stringWithDefault(lookup, "GOCART_ORDERS_API_URL", ""),
			UsersURL:    stringWithDefault(lookup, "GOCART_USERS_API_URL", ""),
		},
		Catalog: CatalogConfig{
			CacheTTL: durationWithDefault(lookup, "GOCART_CATALOG_CACHE_TTL", defaultCatalogCacheTTL),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "GOCART_SESSION_SIGNING_KEY", ""),
			Secure:     env == "prod",
		},
		Storage: StorageConfig{
			QuotaBytes:       intWithDefault(lookup, "GOCART_STORAGE_QUOTA_BYTES", defaultStorageQuota),
			TTL:              durationWithDefault(lookup, "GOCART_STORAGE_TTL", defaultStorageTTL),
			CleanupInterval:  durationWithDefault(lookup, "GOCART_STORAGE_CLEANUP_INTERVAL", defaultCleanupInterval),
			CleanupBatchSize: intWithDefault(lookup, "GOCART_STORAGE_CLEANUP_BATCH_SIZE", defaultCleanupBatchSize),
		},
		Locale: LocaleConfig{
			Fallback:  stringWithDefault(lookup, "GOCART_WEB_FALLBACK_LOCALE", defaultFallbackLocale),
			Supported: csvWithDefault(lookup, "GOCART_WEB_LOCALES", []string{"en", "ja"}),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	} else if n, err := strconv.Atoi(cfg.Server.Port); err != nil || n <= 0 || n > 65535 {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.RequestTimeout <= 0 {
		missing = append(missing, "Server.RequestTimeout")
	}
	if cfg.Catalog.CacheTTL <= 0 {
		missing = append(missing, "Catalog.CacheTTL")
	}
	if cfg.Storage.QuotaBytes < 0 {
		missing = append(missing, "Storage.QuotaBytes")
	}
	if cfg.Storage.TTL <= 0 {
		missing = append(missing, "Storage.TTL")
	}
	if cfg.Storage.CleanupBatchSize <= 0 {
		missing = append(missing, "Storage.CleanupBatchSize")
	}
	if cfg.IsProd() && strings.TrimSpace(cfg.Session.SigningKey) == "" {
		missing = append(missing, "Session.SigningKey")
	}
	if cfg.Locale.Fallback == "" || !contains(cfg.Locale.Supported, cfg.Locale.Fallback) {
		missing = append(missing, "Locale.Fallback")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
