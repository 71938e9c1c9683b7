// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/datepicker/internal/calendar"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for links and redirects.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// MigrationsPath is the directory holding the SQL migration files.
	MigrationsPath string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// AMQP holds the change-event broker settings.
	AMQP AMQPConfig

	// Picker holds defaults applied to every picker widget.
	Picker PickerConfig

	// HTTP holds settings for the HTTP surface (CORS, framing, rate limits).
	HTTP HTTPConfig
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so
// container orchestrators can manage each independently.
// If DATABASE_URL is set, it takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	User     string
	Password string
	Name     string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// fields using the driver's Config.FormatDSN() so special characters in
// passwords survive. Multi-statement mode is on for migration files.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AMQPConfig holds the broker used to publish selection changes. An empty
// URL disables publishing.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// Enabled reports whether a broker is configured.
func (a AMQPConfig) Enabled() bool { return a.URL != "" }

// PickerConfig holds picker defaults and session settings.
type PickerConfig struct {
	// SessionTTL is how long an idle picker session survives in Redis.
	SessionTTL time.Duration

	// DefaultFormat is the output layout for widgets that leave it blank.
	DefaultFormat string

	// DefaultSeparator overrides the layout separator when set.
	DefaultSeparator string

	// DefaultStartOfWeek is the native weekday (0 = Sunday) of column 0.
	DefaultStartOfWeek int

	// Location is the timezone "today" is computed in.
	Location *time.Location
}

// HTTPConfig holds settings for the HTTP surface.
type HTTPConfig struct {
	// CORSOrigins lists origins allowed to call the JSON API.
	CORSOrigins []string

	// FrameAncestors is the CSP frame-ancestors value for embedded pickers.
	FrameAncestors string

	// RateLimitSessions caps session creations per client per window.
	RateLimitSessions int
	RateLimitWindow   time.Duration

	// TrustedProxies lists the CIDR ranges whose forwarding headers are
	// believed when resolving the client IP.
	TrustedProxies []string
}

// defaultTrustedProxies covers a proxy on the same host or a Docker/LAN peer.
var defaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"fd00::/8",
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if a variable is present but unusable.
func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("ENV", "development"),
		Port:           getEnvInt("PORT", 8080),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:       getEnv("LOG_LEVEL", "debug"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "datepicker"),
			Password:        getEnv("DB_PASSWORD", "datepicker"),
			Name:            getEnv("DB_NAME", "datepicker"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "datepicker"),
		},

		Picker: PickerConfig{
			SessionTTL:         getEnvDuration("PICKER_SESSION_TTL", 24*time.Hour),
			DefaultFormat:      getEnv("PICKER_DEFAULT_FORMAT", "DD-MM-YYYY"),
			DefaultSeparator:   getEnv("PICKER_DEFAULT_SEPARATOR", ""),
			DefaultStartOfWeek: getEnvInt("PICKER_DEFAULT_START_OF_WEEK", 0),
		},

		HTTP: HTTPConfig{
			CORSOrigins:       getEnvList("CORS_ORIGINS", nil),
			FrameAncestors:    getEnv("FRAME_ANCESTORS", "'self'"),
			RateLimitSessions: getEnvInt("RATE_LIMIT_SESSIONS", 30),
			RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			TrustedProxies:    getEnvList("TRUSTED_PROXIES", defaultTrustedProxies),
		},
	}

	tz := getEnv("PICKER_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("PICKER_TIMEZONE %q: %w", tz, err)
	}
	cfg.Picker.Location = loc

	if s := cfg.Picker.DefaultStartOfWeek; s < 0 || s > 6 {
		return nil, fmt.Errorf("PICKER_DEFAULT_START_OF_WEEK must be 0-6, got %d", s)
	}
	if cfg.Picker.SessionTTL <= 0 {
		return nil, fmt.Errorf("PICKER_SESSION_TTL must be positive")
	}
	if _, err := calendar.ParseFormat(cfg.Picker.DefaultFormat, cfg.Picker.DefaultSeparator); err != nil {
		return nil, fmt.Errorf("PICKER_DEFAULT_FORMAT %q: %w", cfg.Picker.DefaultFormat, err)
	}
	if cfg.HTTP.RateLimitSessions < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_SESSIONS must be at least 1, got %d", cfg.HTTP.RateLimitSessions)
	}
	if cfg.HTTP.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.HTTP.RateLimitWindow)
	}

	for _, cidr := range cfg.HTTP.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
	}

	// Outside development an unset CORS_ORIGINS means same-origin only.
	if !cfg.IsDevelopment() && len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{cfg.BaseURL}
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvList reads a comma-separated env var, dropping empty entries.
func getEnvList(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
