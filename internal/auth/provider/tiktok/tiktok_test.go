package tiktok

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiktok-login/internal/auth"
)

func newProvider(t *testing.T, serverURL string) *Provider {
	t.Helper()

	p, err := New(Config{
		ClientKey:    "ck-123",
		ClientSecret: "cs-456",
		RedirectURI:  "http://localhost:3000/",
		Scopes:       []string{"user.info.basic", "user.info.stats"},
		AuthURL:      "https://www.tiktok.com/v2/auth/authorize/",
		TokenURL:     serverURL + "/v2/oauth/token/",
		UserInfoURL:  serverURL + "/v2/user/info/",
		Timeout:      2 * time.Second,
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{ClientKey: "k", RedirectURI: "r"})
	assert.Error(t, err)

	_, err = New(Config{ClientKey: "k", ClientSecret: "s", RedirectURI: "r"})
	assert.Error(t, err)
}

func TestAuthCodeURL(t *testing.T) {
	p := newProvider(t, "http://unused")

	raw := p.AuthCodeURL("q1w2e3")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.tiktok.com", u.Host)
	assert.Equal(t, "/v2/auth/authorize/", u.Path)

	q := u.Query()
	assert.Len(t, q, 5)
	assert.Equal(t, "ck-123", q.Get("client_key"))
	assert.Equal(t, "http://localhost:3000/", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "user.info.basic,user.info.stats", q.Get("scope"))
	assert.Equal(t, "q1w2e3", q.Get("state"))
	assert.NotContains(t, raw, "cs-456")
}

func TestAuthCodeURLEncodesValues(t *testing.T) {
	p, err := New(Config{
		ClientKey:    "key with space&more",
		ClientSecret: "s",
		RedirectURI:  "http://localhost/?next=/a&b=c",
		Scopes:       []string{"user.info.basic"},
		AuthURL:      "https://example.test/authorize?lang=en",
		TokenURL:     "https://example.test/token",
		UserInfoURL:  "https://example.test/user",
	})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("s/t+a=te"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "en", q.Get("lang"))
	assert.Equal(t, "key with space&more", q.Get("client_key"))
	assert.Equal(t, "http://localhost/?next=/a&b=c", q.Get("redirect_uri"))
	assert.Equal(t, "s/t+a=te", q.Get("state"))
}

func TestExchangeCodeSendsSecretAndRelaysBody(t *testing.T) {
	const body = `{"access_token":"abc","expires_in":3600}`

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/oauth/token/", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ck-123", r.PostForm.Get("client_key"))
		assert.Equal(t, "ck-123", r.PostForm.Get("client_id"))
		assert.Equal(t, "cs-456", r.PostForm.Get("client_secret"))
		assert.Equal(t, "XYZ", r.PostForm.Get("code"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "http://localhost:3000/", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	res, err := newProvider(t, srv.URL).ExchangeCode(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, res.OK())
	assert.Equal(t, body, string(res.Body))
}

func TestExchangeCodeProviderError(t *testing.T) {
	const body = `{"error":"invalid_grant","error_description":"x","log_id":"L"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	res, err := newProvider(t, srv.URL).ExchangeCode(context.Background(), "XYZ")
	require.NoError(t, err)

	require.NotNil(t, res.Err)
	assert.Equal(t, "invalid_grant", res.Err.Code)
	assert.Equal(t, "x", res.Err.Description)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, body, string(res.Body))
}

func TestExchangeCodeGatewayFailures(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := newProvider(t, addr).ExchangeCode(context.Background(), "XYZ")
		assert.True(t, errors.Is(err, auth.ErrGateway))
	})

	t.Run("html body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
		}))
		defer srv.Close()

		_, err := newProvider(t, srv.URL).ExchangeCode(context.Background(), "XYZ")
		assert.True(t, errors.Is(err, auth.ErrGateway))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		p := newProvider(t, srv.URL)
		p.timeout = 50 * time.Millisecond

		_, err := p.ExchangeCode(context.Background(), "XYZ")
		assert.True(t, errors.Is(err, auth.ErrGateway))
	})
}

func TestUserInfoForwardsBearer(t *testing.T) {
	const body = `{"data":{"user":{"display_name":"Alice","username":"alice"}},"error":{"code":"ok","message":"","log_id":"1"}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/user/info/", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.True(t, strings.Contains(r.URL.Query().Get("fields"), "display_name"))

		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	res, err := newProvider(t, srv.URL).UserInfo(context.Background(), "tok123")
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, body, string(res.Body))

	profile, err := auth.DecodeProfile(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.DisplayName)
}

func TestUserInfoProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"data":{},"error":{"code":"access_token_invalid","message":"The access token is invalid","log_id":"2"}}`)
	}))
	defer srv.Close()

	res, err := newProvider(t, srv.URL).UserInfo(context.Background(), "expired")
	require.NoError(t, err)

	require.NotNil(t, res.Err)
	assert.Equal(t, "access_token_invalid", res.Err.Code)
	assert.Equal(t, "The access token is invalid", res.Err.Message())
}
