// Package config loads the service configuration from config.toml and IMS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of config.toml; each field is one TOML table.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Swagger     SwaggerConfig     `mapstructure:"swagger"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Document    DocumentConfig    `mapstructure:"document"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Env         string `mapstructure:"env"` // development or production
	Port        string `mapstructure:"port"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// RedisConfig backs the idempotency store. When disabled the store is in memory.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	MaxBodySize       int64         `mapstructure:"max_body_size"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"` // per client per window
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	CORSAllowOrigins  []string      `mapstructure:"cors_allow_origins"` // empty denies cross-origin requests
	CORSAllowMethods  []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders  []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies    []string      `mapstructure:"trusted_proxies"`
}

// IdempotencyConfig controls Idempotency-Key replay on the create endpoints
type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type SwaggerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TelemetryConfig drives the OTLP exporters and the Pyroscope profiler.
// Enabled covers traces only; metrics, logs and profiling have their own switch.
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // host:port of the OTLP gRPC receiver
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`

	MetricsEnabled        bool          `mapstructure:"metrics_enabled"`
	MetricsExportInterval time.Duration `mapstructure:"metrics_export_interval"`
	LogsEnabled           bool          `mapstructure:"logs_enabled"`

	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`

	ProfilingEnabled       bool   `mapstructure:"profiling_enabled"`
	PyroscopeServerURL     string `mapstructure:"pyroscope_server_url"`
	PyroscopeBasicAuthUser string `mapstructure:"pyroscope_basic_auth_user"`
	PyroscopeBasicAuthPass string `mapstructure:"pyroscope_basic_auth_password"`
}

// DocumentConfig configures invoice PDF rendering
type DocumentConfig struct {
	RendererEnabled bool          `mapstructure:"renderer_enabled"`
	ChromeRemoteURL string        `mapstructure:"chrome_remote_url"` // DevTools websocket; a local Chrome is started when empty
	NoSandbox       bool          `mapstructure:"no_sandbox"`
	RenderTimeout   time.Duration `mapstructure:"render_timeout"`
	ArchiveEnabled  bool          `mapstructure:"archive_enabled"`
	CompanyName     string        `mapstructure:"company_name"`
	Locale          string        `mapstructure:"locale"` // BCP 47, e.g. en-US
}

// StorageConfig points at the S3-compatible bucket for archived PDFs
type StorageConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// defaults lists every key. AutomaticEnv only resolves keys viper knows about,
// so keys without a meaningful default are still registered with a zero value.
var defaults = map[string]any{
	"app.name":         "invoice-store",
	"app.env":          "development",
	"app.port":         "8080",
	"app.auto_migrate": false,

	"database.driver":             DriverPostgres,
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "invoices",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "invoices.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":        "15s",
	"http.write_timeout":       "60s",
	"http.idle_timeout":        "60s",
	"http.shutdown_timeout":    "10s",
	"http.max_header_bytes":    1 << 20,
	"http.max_body_size":       1 << 20,
	"http.rate_limit_enabled":  false,
	"http.rate_limit_requests": 100,
	"http.rate_limit_window":   "1m",
	"http.cors_allow_origins":  []string{},
	"http.cors_allow_methods":  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"http.cors_allow_headers":  []string{"Content-Type", "X-Request-ID", "Idempotency-Key"},
	"http.trusted_proxies":     []string{},

	"idempotency.enabled": false,
	"idempotency.ttl":     "24h",

	"swagger.enabled": false,

	"telemetry.enabled":                       false,
	"telemetry.collector_endpoint":            "localhost:4317",
	"telemetry.sampling_ratio":                1.0,
	"telemetry.service_name":                  "invoice-store",
	"telemetry.insecure":                      false,
	"telemetry.metrics_enabled":               false,
	"telemetry.metrics_export_interval":       "60s",
	"telemetry.logs_enabled":                  false,
	"telemetry.db_trace_enabled":              false,
	"telemetry.db_log_full_sql":               false,
	"telemetry.db_slow_query_threshold":       "200ms",
	"telemetry.profiling_enabled":             false,
	"telemetry.pyroscope_server_url":          "http://localhost:4040",
	"telemetry.pyroscope_basic_auth_user":     "",
	"telemetry.pyroscope_basic_auth_password": "",

	"document.renderer_enabled":  false,
	"document.chrome_remote_url": "",
	"document.no_sandbox":        false,
	"document.render_timeout":    "30s",
	"document.archive_enabled":   false,
	"document.company_name":      "Invoice Management Store",
	"document.locale":            "en-US",

	"storage.endpoint":       "",
	"storage.region":         "us-east-1",
	"storage.bucket":         "invoices",
	"storage.access_key":     "",
	"storage.secret_key":     "",
	"storage.use_ssl":        false,
	"storage.use_path_style": false,
}

// Load merges built-in defaults, then config.toml from . or /app, then IMS_*
// environment variables (IMS_DATABASE_PASSWORD overrides database.password).
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.toml: %w", err)
		}
	}

	v.SetEnvPrefix("IMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	db := c.Database
	switch {
	case db.Driver != DriverPostgres && db.Driver != DriverSQLite:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, db.Driver)
	case db.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	case c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1:
		return fmt.Errorf("telemetry.sampling_ratio must be within [0, 1], got %g", c.Telemetry.SamplingRatio)
	case c.Document.ArchiveEnabled && (c.Storage.AccessKey == "" || c.Storage.SecretKey == ""):
		return errors.New("storage.access_key and storage.secret_key are required when document.archive_enabled is set")
	}

	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

func (c *Config) validateProduction() error {
	if c.Database.Driver == DriverPostgres {
		if c.Database.Password == "" {
			return errors.New("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return errors.New("database.sslmode cannot be disable in production")
		}
	}
	if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
		return errors.New("http.cors_allow_origins cannot contain * in production")
	}
	if c.Telemetry.DBLogFullSQL {
		return errors.New("telemetry.db_log_full_sql must be false in production")
	}
	return nil
}

// DSN renders a postgres:// URL with user info and query values escaped.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
