package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	TikTokClientKey    string   `env:"TIKTOK_CLIENT_KEY"`
	TikTokClientSecret string   `env:"TIKTOK_CLIENT_SECRET"`
	TikTokRedirectURI  string   `env:"TIKTOK_REDIRECT_URI" envDefault:"http://localhost:3000/"`
	TikTokScopes       []string `env:"TIKTOK_SCOPES" envDefault:"user.info.basic" envSeparator:","`

	TikTokAuthURL     string `env:"TIKTOK_AUTH_URL" envDefault:"https://www.tiktok.com/v2/auth/authorize/"`
	TikTokTokenURL    string `env:"TIKTOK_TOKEN_URL" envDefault:"https://open.tiktokapis.com/v2/oauth/token/"`
	TikTokUserInfoURL string `env:"TIKTOK_USER_INFO_URL" envDefault:"https://open.tiktokapis.com/v2/user/info/"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`

	// ProxyBaseURL points the pages at another instance's proxy endpoints.
	// Empty means the provider is called in-process.
	ProxyBaseURL string `env:"PROXY_BASE_URL"`

	StateTTL     time.Duration `env:"STATE_TTL" envDefault:"10m"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var missing []string

	if strings.TrimSpace(c.TikTokClientKey) == "" {
		missing = append(missing, "TIKTOK_CLIENT_KEY")
	}
	if strings.TrimSpace(c.TikTokClientSecret) == "" {
		missing = append(missing, "TIKTOK_CLIENT_SECRET")
	}
	if strings.TrimSpace(c.TikTokRedirectURI) == "" {
		missing = append(missing, "TIKTOK_REDIRECT_URI")
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required variables: %s", strings.Join(missing, ", "))
	}

	if c.ProviderTimeout <= 0 {
		return errors.New("config: PROVIDER_TIMEOUT must be positive")
	}
	if c.StateTTL <= 0 {
		return errors.New("config: STATE_TTL must be positive")
	}

	return nil
}
