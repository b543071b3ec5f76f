package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"finance-dashboard-go/pkg/logger"
)

type Config struct {
	HTTPPort           string
	HTTPTimeouts       HTTPTimeouts
	Env                string
	CORSAllowedOrigins []string
	DB                 DBConfig
	Auth               AuthConfig
	Analytics          AnalyticsConfig
	Export             ExportConfig
	AMQP               AMQPConfig
}

// HTTPTimeouts bound the server side of a connection. Write also caps
// how long a CSV export may take to stream.
type HTTPTimeouts struct {
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	TokenTTL      time.Duration
	SkipAuth      bool
	MockUserID    string
	MockUserEmail string
	MockUserName  string
	// UserCacheTTL bounds how long a resolved user is reused; 0 disables.
	UserCacheTTL  time.Duration
}

type AnalyticsConfig struct {
	// Timezone used for calendar bucketing and the last-30-days boundary.
	Timezone string
}

type ExportConfig struct {
	TempDir string
}

type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

func (c AMQPConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort:           getEnv("HTTP_PORT", "5000"),
		Env:                getEnv("ENV", "development"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		HTTPTimeouts: HTTPTimeouts{
			ReadHeader: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			Write:      getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			Idle:       getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "finance_dashboard"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			JWTIssuer:     getEnv("JWT_ISSUER", "finance-dashboard"),
			TokenTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			MockUserID:    getEnv("AUTH_MOCK_USER_ID", "user_001"),
			MockUserEmail: getEnv("AUTH_MOCK_USER_EMAIL", "user1@example.com"),
			MockUserName:  getEnv("AUTH_MOCK_USER_NAME", "User One"),
			UserCacheTTL:  getEnvDuration("AUTH_USER_CACHE_TTL", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			Timezone: getEnv("ANALYTICS_TIMEZONE", "UTC"),
		},
		Export: ExportConfig{
			TempDir: getEnv("EXPORT_TEMP_DIR", os.TempDir()),
		},
		AMQP: AMQPConfig{
			URL:        getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "finance"),
			RoutingKey: getEnv("AMQP_ROUTING_KEY", "transactions.changed"),
		},
	}, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %q: must be a number", c.HTTPPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %d: must be between 1 and 65535", port))
	}

	if !c.Auth.SkipAuth && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		problems = append(problems, "JWT_SECRET is required unless AUTH_SKIP is set")
	}
	if c.Auth.SkipAuth && strings.TrimSpace(c.Auth.MockUserID) == "" {
		problems = append(problems, "AUTH_MOCK_USER_ID is required when AUTH_SKIP is set")
	}
	if c.Auth.UserCacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid AUTH_USER_CACHE_TTL %v: must not be negative", c.Auth.UserCacheTTL))
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid JWT_TTL %v: must be positive", c.Auth.TokenTTL))
	}

	if _, err := time.LoadLocation(c.Analytics.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid ANALYTICS_TIMEZONE %q: %v", c.Analytics.Timezone, err))
	}

	if c.AMQP.Enabled() {
		if parsed, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL: %v", err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location resolves the analytics timezone, falling back to UTC.
func (c AnalyticsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
