package tiktok

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tiktok-login/internal/auth"
	"tiktok-login/internal/logger"

	"golang.org/x/oauth2"
)

const (
	// TikTok separates scopes with commas, not spaces.
	scopeSeparator = ","

	// user-info returns only the fields it is asked for
	userInfoFields = "open_id,union_id,avatar_url,display_name,username,bio_description,follower_count,following_count,likes_count"

	// provider responses are small JSON documents
	maxBodyBytes = 1 << 20
)

type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	Timeout time.Duration

	// HTTPClient overrides the outbound client, mainly for tests.
	HTTPClient *http.Client
}

// Provider talks to TikTok Login Kit. It is the only holder of the client
// secret and never returns it to callers.
type Provider struct {
	clientKey    string
	clientSecret string
	redirectURI  string
	scopes       []string
	endpoint     oauth2.Endpoint
	userInfoURL  string
	timeout      time.Duration
	httpClient   *http.Client
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientKey == "" || cfg.ClientSecret == "" || cfg.RedirectURI == "" {
		return nil, errors.New("tiktok oauth config missing required fields")
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, errors.New("tiktok endpoint config missing required fields")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Provider{
		clientKey:    cfg.ClientKey,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		scopes:       cfg.Scopes,
		endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		userInfoURL: cfg.UserInfoURL,
		timeout:     cfg.Timeout,
		httpClient:  client,
	}, nil
}

// AuthCodeURL builds the consent-screen URL. client_key and redirect_uri are
// not validated here; TikTok reports bad values after the redirect.
func (p *Provider) AuthCodeURL(state string) string {
	v := url.Values{
		"client_key":    {p.clientKey},
		"redirect_uri":  {p.redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(p.scopes, scopeSeparator)},
		"state":         {state},
	}

	u := p.endpoint.AuthURL
	if strings.Contains(u, "?") {
		return u + "&" + v.Encode()
	}
	return u + "?" + v.Encode()
}

// ExchangeCode posts the code together with the client secret to the token
// endpoint. The response is returned as-is, provider errors included.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (*auth.Result, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	form := url.Values{
		"client_key":    {p.clientKey},
		"client_id":     {p.clientKey},
		"client_secret": {p.clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {p.redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("tiktok token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	res, err := p.do(p.httpClient, req)
	if err != nil {
		logger.Error("tiktok token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	if !res.OK() {
		logger.Warn("tiktok token exchange rejected", map[string]any{
			"status": res.StatusCode,
			"code":   res.Err.Code,
			"log_id": res.Err.LogID,
		})
	}

	return res, nil
}

// UserInfo calls the user-info endpoint with the bearer token unchanged.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*auth.Result, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	u, err := url.Parse(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("tiktok user info url: %w", err)
	}
	q := u.Query()
	q.Set("fields", userInfoFields)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("tiktok user info request: %w", err)
	}

	res, err := p.do(BearerClient(ctx, p.httpClient, accessToken), req)
	if err != nil {
		logger.Error("tiktok user info failed", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	if !res.OK() {
		logger.Warn("tiktok user info rejected", map[string]any{
			"status": res.StatusCode,
			"code":   res.Err.Code,
			"log_id": res.Err.LogID,
		})
	}

	return res, nil
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Provider) do(client *http.Client, req *http.Request) (*auth.Result, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", auth.ErrGateway, err)
	}

	return auth.ParseResult(resp.StatusCode, body)
}

// BearerClient returns a client that sends accessToken as
// "Authorization: Bearer <token>" over base's transport.
func BearerClient(ctx context.Context, base *http.Client, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}
