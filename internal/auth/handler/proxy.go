package handler

import (
	"net/http"

	"tiktok-login/internal/auth"
	"tiktok-login/internal/logger"
	"tiktok-login/internal/middleware"

	"github.com/gin-gonic/gin"
)

type tokenExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

// tokenExchange trades the browser's authorization code for a token. The
// client secret is added by the provider and never leaves the server.
func (h *Handler) tokenExchange(c *gin.Context) {
	var req tokenExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.provider.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		logger.Error("token exchange proxy failed", map[string]any{
			"error": err.Error(),
		})
		c.Header(auth.GatewayHeader, auth.GatewayValue)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange token"})
		return
	}

	c.Header("Cache-Control", "no-store")
	relay(c, res)
}

// userInfo forwards the caller's bearer token to the provider. The token is
// not checked here beyond its syntax.
func (h *Handler) userInfo(c *gin.Context) {
	token, ok := middleware.BearerTokenFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingCredential.Error()})
		return
	}

	res, err := h.provider.UserInfo(c.Request.Context(), token)
	if err != nil {
		logger.Error("user info proxy failed", map[string]any{
			"error": err.Error(),
		})
		c.Header(auth.GatewayHeader, auth.GatewayValue)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user info"})
		return
	}

	relay(c, res)
}

// relay writes the provider payload byte-for-byte with the provider's status.
func relay(c *gin.Context, res *auth.Result) {
	c.Data(res.StatusCode, "application/json; charset=utf-8", res.Body)
}
