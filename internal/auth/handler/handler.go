package handler

import (
	"net/http"
	"time"

	"tiktok-login/internal/auth/flow"
	"tiktok-login/internal/auth/provider"
	"tiktok-login/internal/logger"
	"tiktok-login/internal/middleware"
	"tiktok-login/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	flow     *flow.Flow
	provider provider.Backend
	cookies  session.CookieOptions
}

// NewHandler wires the page flow and the proxy endpoints. p is the
// in-process provider holding the client secret; the proxies always use it.
func NewHandler(
	f *flow.Flow,
	p provider.Backend,
	secureCookies bool,
	attemptTTL time.Duration,
) *Handler {
	return &Handler{
		flow:     f,
		provider: p,
		cookies: session.CookieOptions{
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(attemptTTL.Seconds()),
		},
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/login", h.login)
	r.POST("/logout", h.logout)

	r.Any("/token-exchange", middleware.AllowMethods(http.MethodPost), h.tokenExchange)
	r.Any("/user-info",
		middleware.AllowMethods(http.MethodGet),
		middleware.GinRequireBearer(),
		h.userInfo,
	)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}
