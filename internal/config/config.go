// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database struct {
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	Directory struct {
		BaseURL       string        `json:"base_url"`
		APIKey        string        `json:"api_key"`
		SessionCookie string        `json:"session_cookie"`
		Timeout       time.Duration `json:"timeout"`
	} `json:"directory"`
	Deliverability struct {
		BaseURL string        `json:"base_url"`
		APIKey  string        `json:"api_key"`
		Timeout time.Duration `json:"timeout"`
	} `json:"deliverability"`
	CRM struct {
		BaseURL string        `json:"base_url"`
		APIKey  string        `json:"api_key"`
		Timeout time.Duration `json:"timeout"`
	} `json:"crm"`
	License struct {
		DefaultCountryCode string `json:"default_country_code"`
		DefaultTotalSeats  int    `json:"default_total_seats"`
		LowSeatThreshold   int    `json:"low_seat_threshold"`
	} `json:"license"`
	JWT struct {
		Secret string `json:"secret"`
	} `json:"jwt"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	Sendgrid struct {
		APIKey string `json:"api_key"`
		From   string `json:"from"`
	} `json:"sendgrid"`
	SMTP map[string]struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
		From     string `json:"from"`
	} `json:"smtp"`
	BaseURL string `json:"base_url"`
}

func Load() *Config {
	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "licenser")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// Directory lookup service (Parlo CMS)
	cfg.Directory.BaseURL = getEnv("PARLO_BASE_URL", "https://cms.parlo.london/api/v1")
	cfg.Directory.APIKey = getEnv("PARLO_API_KEY", "")
	cfg.Directory.SessionCookie = getEnv("PARLO_SESSION_COOKIE", "")
	cfg.Directory.Timeout = getEnvDuration("PARLO_TIMEOUT", 10*time.Second)

	// Email deliverability service (MillionVerifier)
	cfg.Deliverability.BaseURL = getEnv("MILLION_VERIFIER_BASE_URL", "https://api.millionverifier.com/api/v3/")
	cfg.Deliverability.APIKey = getEnv("MILLION_VERIFIER_API_KEY", "")
	cfg.Deliverability.Timeout = getEnvDuration("MILLION_VERIFIER_TIMEOUT", 15*time.Second)

	// CRM contact/lead store
	cfg.CRM.BaseURL = getEnv("CRM_BASE_URL", "http://localhost:8000/api")
	cfg.CRM.APIKey = getEnv("CRM_API_KEY", "")
	cfg.CRM.Timeout = getEnvDuration("CRM_TIMEOUT", 10*time.Second)

	// License pool defaults
	cfg.License.DefaultCountryCode = getEnv("DEFAULT_COUNTRY_CODE", "+971")
	cfg.License.DefaultTotalSeats = getEnvInt("DEFAULT_TOTAL_SEATS", 100)
	cfg.License.LowSeatThreshold = getEnvInt("LOW_SEAT_THRESHOLD", 5)

	// JWT configuration (tokens are issued by the host platform)
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")

	// Sendgrid configuration
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Sendgrid.From = getEnv("SENDGRID_FROM", "")

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
