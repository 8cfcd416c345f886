package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiktok-login/internal/config"
	"tiktok-login/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		AppPort:            "0",
		TikTokClientKey:    "ck",
		TikTokClientSecret: "cs",
		TikTokRedirectURI:  "http://localhost:3000/",
		TikTokScopes:       []string{"user.info.basic"},
		TikTokAuthURL:      "https://www.tiktok.com/v2/auth/authorize/",
		TikTokTokenURL:     "https://open.tiktokapis.com/v2/oauth/token/",
		TikTokUserInfoURL:  "https://open.tiktokapis.com/v2/user/info/",
		ProviderTimeout:    time.Second,
		StateTTL:           time.Minute,
		CookieSecure:       true,
	}
}

func TestSetupInfraMemoryFallback(t *testing.T) {
	infra, err := setupInfra(context.Background(), testConfig())
	require.NoError(t, err)

	_, ok := infra.Attempts.(*session.MemoryStore)
	assert.True(t, ok)
	assert.NoError(t, infra.cleanup())
}

func TestSetupInfraRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	infra, err := setupInfra(context.Background(), cfg)
	require.NoError(t, err)

	_, ok := infra.Attempts.(*session.RedisStore)
	assert.True(t, ok)
	assert.NoError(t, infra.cleanup())
}

func TestSetupInfraRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	_, err := setupInfra(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRouterServesHealthAndLogin(t *testing.T) {
	router, cleanup, err := setupHTTP(context.Background(), testConfig())
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://www.tiktok.com/v2/auth/authorize/?")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token-exchange", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterWithRemoteProxy(t *testing.T) {
	cfg := testConfig()
	cfg.ProxyBaseURL = "http://proxy.internal:3000"

	router, cleanup, err := setupHTTP(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewAndShutdown(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))
}
