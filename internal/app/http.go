package app

import (
	"context"
	"net/http"

	"tiktok-login/internal/auth/flow"
	"tiktok-login/internal/auth/handler"
	"tiktok-login/internal/auth/provider"
	"tiktok-login/internal/auth/provider/tiktok"
	"tiktok-login/internal/auth/proxyclient"
	"tiktok-login/internal/auth/state"
	"tiktok-login/internal/config"
	"tiktok-login/internal/logger"
	"tiktok-login/internal/middleware"
	"tiktok-login/internal/web"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	router, err := newRouter(cfg, infra)
	if err != nil {
		_ = infra.cleanup()
		return nil, nil, err
	}

	return router, infra.cleanup, nil
}

func newRouter(cfg config.Config, infra *Infra) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	tiktokProvider, err := tiktok.New(tiktok.Config{
		ClientKey:    cfg.TikTokClientKey,
		ClientSecret: cfg.TikTokClientSecret,
		RedirectURI:  cfg.TikTokRedirectURI,
		Scopes:       cfg.TikTokScopes,
		AuthURL:      cfg.TikTokAuthURL,
		TokenURL:     cfg.TikTokTokenURL,
		UserInfoURL:  cfg.TikTokUserInfoURL,
		Timeout:      cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, err
	}

	var backend provider.Backend = tiktokProvider
	if cfg.ProxyBaseURL != "" {
		backend, err = proxyclient.New(cfg.ProxyBaseURL, cfg.ProviderTimeout, nil)
		if err != nil {
			return nil, err
		}

		logger.Info("pages use remote proxy", map[string]any{
			"proxy_base_url": cfg.ProxyBaseURL,
		})
	}

	loginFlow := flow.New(
		tiktokProvider,
		state.NewVerifier(infra.Attempts, cfg.StateTTL),
		backend,
	)

	authHandler := handler.NewHandler(
		loginFlow,
		tiktokProvider,
		cfg.CookieSecure,
		cfg.StateTTL,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog())
	router.SetHTMLTemplate(web.Templates())

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, nil
}
