package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Origins allowed to call the API from a browser
	ClientURLs []string

	// Mail account used to send reports; EmailUser is also the From address
	EmailUser   string
	EmailPass   string
	EmailReport string // Recipient of every feedback report

	// SMTP transport
	SMTPHost               string
	SMTPPort               int
	SMTPSSL                bool
	SMTPInsecureSkipVerify bool

	// Request handling
	SendTimeout  time.Duration
	MaxBodyBytes int64

	// Set by the Lambda runtime
	LambdaFunction string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", getEnv("NODE_ENV", "production")),
		Port:     getEnvInt("PORT", 3000),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ClientURLs: getEnvList("CLIENT_URLS"),

		EmailUser:   getEnv("EMAIL_USER", ""),
		EmailPass:   getEnv("EMAIL_PASS", ""),
		EmailReport: getEnv("EMAIL_REPORT", ""),

		SMTPHost:               getEnv("SMTP_HOST", "smtp-mail.outlook.com"),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPSSL:                getEnvBool("SMTP_SSL", false),
		SMTPInsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),

		SendTimeout:  getEnvDuration("SEND_TIMEOUT", 30*time.Second),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 10<<20)),

		LambdaFunction: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would make every submission fail.
// Development runs may leave the mail account unset.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("SEND_TIMEOUT must be positive, got: %s", c.SendTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got: %d", c.MaxBodyBytes)
	}

	if c.IsDevelopment() {
		return nil
	}

	if c.EmailUser == "" {
		return fmt.Errorf("EMAIL_USER is required")
	}
	if c.EmailReport == "" {
		return fmt.Errorf("EMAIL_REPORT is required")
	}
	return nil
}

// IsDevelopment reports whether the service runs locally. Development mode
// skips the origin allow-list and always serves over a local listener.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// RunsOnLambda reports whether requests arrive as API Gateway events.
func (c *Config) RunsOnLambda() bool {
	return c.LambdaFunction != "" && !c.IsDevelopment()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList parses a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
