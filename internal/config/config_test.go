package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvMockMode(t *testing.T) {
	t.Setenv("USE_MOCK_DB", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.UseMockDB)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadFromEnvRequiresClickHouse(t *testing.T) {
	t.Setenv("USE_MOCK_DB", "")
	t.Setenv("CLICKHOUSE_HOST", "")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "CLICKHOUSE_HOST")
}

func TestLoadFromEnvFull(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("CLICKHOUSE_PORT", "9440")
	t.Setenv("CLICKHOUSE_USE_TLS", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 9440, cfg.ClickHousePort)
	assert.True(t, cfg.ClickHouseUseTLS)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
	assert.Contains(t, cfg.PostgresDSN(), "password=secret")
}

func TestLoadFromEnvInvalidClickHousePort(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("CLICKHOUSE_PORT", "not-a-port")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "CLICKHOUSE_PORT")
}

func TestLoadFromEnvOAuthGroup(t *testing.T) {
	t.Setenv("USE_MOCK_DB", "true")
	t.Setenv("OAUTH_CLIENT_ID", "client")

	_, err := LoadFromEnv()
	assert.Error(t, err)

	t.Setenv("OAUTH_CLIENT_SECRET", "secret")
	t.Setenv("OAUTH_AUTH_URL", "https://idp/authorize")
	t.Setenv("OAUTH_TOKEN_URL", "https://idp/token")
	t.Setenv("OAUTH_USERINFO_URL", "https://idp/userinfo")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app/auth/callback")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "client", cfg.OAuthClientID)
}

func TestParseTelegramUsers(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  map[int64]string
		expectErr bool
	}{
		{
			name:     "empty",
			raw:      "",
			expected: nil,
		},
		{
			name:     "single pair",
			raw:      "12345:owner-a",
			expected: map[int64]string{12345: "owner-a"},
		},
		{
			name:     "multiple pairs with spaces",
			raw:      "12345:owner-a, 67890:owner-b",
			expected: map[int64]string{12345: "owner-a", 67890: "owner-b"},
		},
		{
			name:      "missing owner",
			raw:       "12345:",
			expectErr: true,
		},
		{
			name:      "not a number",
			raw:       "abc:owner",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseTelegramUsers(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLoadFromEnvTelegramRequiresUsers(t *testing.T) {
	t.Setenv("USE_MOCK_DB", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "TELEGRAM_USERS")

	t.Setenv("TELEGRAM_USERS", "12345:owner-a")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{12345: "owner-a"}, cfg.TelegramUsers)
}
