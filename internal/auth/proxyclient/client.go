package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tiktok-login/internal/auth"
	"tiktok-login/internal/auth/provider/tiktok"
)

const maxBodyBytes = 1 << 20

// Client reaches the provider through another instance's /token-exchange and
// /user-info endpoints. The client secret is only used by that instance.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("proxyclient: base url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*auth.Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return nil, fmt.Errorf("proxyclient: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token-exchange", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("proxyclient: token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(c.httpClient, req)
}

func (c *Client) UserInfo(ctx context.Context, accessToken string) (*auth.Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user-info", nil)
	if err != nil {
		return nil, fmt.Errorf("proxyclient: user info request: %w", err)
	}

	return c.do(tiktok.BearerClient(ctx, c.httpClient, accessToken), req)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// do maps replies the proxy marked with auth.GatewayHeader to ErrGateway.
// Everything else is a relayed provider payload, whatever its status.
func (c *Client) do(client *http.Client, req *http.Request) (*auth.Result, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", auth.ErrGateway, err)
	}

	if resp.Header.Get(auth.GatewayHeader) == auth.GatewayValue {
		return nil, fmt.Errorf("%w: proxy status %d: %s", auth.ErrGateway, resp.StatusCode, bytes.TrimSpace(body))
	}

	return auth.ParseResult(resp.StatusCode, body)
}
