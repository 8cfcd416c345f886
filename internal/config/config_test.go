package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIKTOK_CLIENT_KEY", "key-123")
	t.Setenv("TIKTOK_CLIENT_SECRET", "secret-456")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000/", cfg.TikTokRedirectURI)
	assert.Equal(t, []string{"user.info.basic"}, cfg.TikTokScopes)
	assert.Equal(t, "https://www.tiktok.com/v2/auth/authorize/", cfg.TikTokAuthURL)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 10*time.Minute, cfg.StateTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TIKTOK_CLIENT_KEY", "key-123")
	t.Setenv("TIKTOK_CLIENT_SECRET", "secret-456")
	t.Setenv("TIKTOK_SCOPES", "user.info.basic,user.info.stats")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"user.info.basic", "user.info.stats"}, cfg.TikTokScopes)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("TIKTOK_CLIENT_KEY", "")
	t.Setenv("TIKTOK_CLIENT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIKTOK_CLIENT_KEY")
	assert.Contains(t, err.Error(), "TIKTOK_CLIENT_SECRET")
}

func TestValidateRejectsNonPositiveDurations(t *testing.T) {
	cfg := Config{
		TikTokClientKey:    "k",
		TikTokClientSecret: "s",
		TikTokRedirectURI:  "http://localhost/",
		ProviderTimeout:    0,
		StateTTL:           time.Minute,
	}
	assert.Error(t, cfg.Validate())

	cfg.ProviderTimeout = time.Second
	cfg.StateTTL = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.StateTTL = time.Second
	assert.NoError(t, cfg.Validate())
}
