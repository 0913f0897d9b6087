package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Port string

	// Postgres (book records)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// ClickHouse (reading-activity log)
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// OAuth identity provider (optional; proxy-header auth works without)
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthRedirectURL  string

	// Telegram quick-log bot (optional)
	TelegramToken string
	// TelegramUsers maps allowed Telegram user IDs to library owner IDs.
	TelegramUsers map[int64]string

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.Port = getEnv("PORT", "8080")

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	if !config.UseMockDB {
		config.loadPostgres()
		if err := config.loadClickHouse(); err != nil {
			return nil, err
		}
	}

	// OAuth configuration (required as a group when a client id is set)
	config.OAuthClientID = os.Getenv("OAUTH_CLIENT_ID")
	if config.OAuthClientID != "" {
		config.OAuthClientSecret = os.Getenv("OAUTH_CLIENT_SECRET")
		config.OAuthAuthURL = os.Getenv("OAUTH_AUTH_URL")
		config.OAuthTokenURL = os.Getenv("OAUTH_TOKEN_URL")
		config.OAuthUserInfoURL = os.Getenv("OAUTH_USERINFO_URL")
		config.OAuthRedirectURL = os.Getenv("OAUTH_REDIRECT_URL")

		for name, value := range map[string]string{
			"OAUTH_CLIENT_SECRET": config.OAuthClientSecret,
			"OAUTH_AUTH_URL":      config.OAuthAuthURL,
			"OAUTH_TOKEN_URL":     config.OAuthTokenURL,
			"OAUTH_USERINFO_URL":  config.OAuthUserInfoURL,
			"OAUTH_REDIRECT_URL":  config.OAuthRedirectURL,
		} {
			if value == "" {
				return nil, fmt.Errorf("%s is required when OAUTH_CLIENT_ID is set", name)
			}
		}
	}

	// Telegram bot configuration (optional)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken != "" {
		users, err := parseTelegramUsers(os.Getenv("TELEGRAM_USERS"))
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, fmt.Errorf("TELEGRAM_USERS is required when TELEGRAM_BOT_TOKEN is set (comma-separated telegramID:ownerID pairs)")
		}
		config.TelegramUsers = users
	}

	return config, nil
}

func (c *Config) loadPostgres() {
	c.DBHost = getEnv("DB_HOST", "localhost")
	c.DBPort = getEnv("DB_PORT", "5432")
	c.DBUser = getEnv("DB_USER", "booklog")
	c.DBPassword = os.Getenv("DB_PASSWORD")
	c.DBName = getEnv("DB_NAME", "booklog")
}

func (c *Config) loadClickHouse() error {
	c.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
	if c.ClickHouseHost == "" {
		return fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_DB is not set")
	}

	portStr := os.Getenv("CLICKHOUSE_PORT")
	if portStr == "" {
		c.ClickHousePort = 9000 // Default ClickHouse native port
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
		}
		c.ClickHousePort = port
	}

	c.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
	c.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
	c.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
	// Password is optional, can be empty

	c.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	return nil
}

// PostgresDSN builds the connection string for the book store.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// parseTelegramUsers parses "12345:owner-a,67890:owner-b".
func parseTelegramUsers(raw string) (map[int64]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	users := make(map[int64]string)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("invalid entry in TELEGRAM_USERS: %s", pair)
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Telegram user ID in TELEGRAM_USERS: %s", parts[0])
		}
		users[id] = parts[1]
	}
	return users, nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
