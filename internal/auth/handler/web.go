package handler

import (
	"net/http"

	"tiktok-login/internal/auth/flow"
	"tiktok-login/internal/logger"
	"tiktok-login/internal/session"
	"tiktok-login/internal/web"

	"github.com/gin-gonic/gin"
)

// index is both the landing page and the provider redirect target.
func (h *Handler) index(c *gin.Context) {
	cb := flow.Callback{
		Code:             c.Query("code"),
		State:            c.Query("state"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	}

	if !cb.IsCallback() {
		h.render(c, flow.Idle())
		return
	}

	out := h.flow.Complete(c.Request.Context(), session.AttemptID(c.Request), cb)

	// the attempt is spent whatever happened
	session.ClearCookie(c.Writer, h.cookies)

	h.render(c, out)
}

// login starts an attempt and sends the browser to the consent screen.
// A second login from the same browser reuses the attempt slot, so only the
// latest state can verify.
func (h *Handler) login(c *gin.Context) {
	attemptID := session.AttemptID(c.Request)
	if attemptID == "" {
		id, err := session.GenerateID()
		if err != nil {
			logger.Error("failed to create login attempt", map[string]any{
				"error": err.Error(),
			})
			h.renderStatus(c, http.StatusInternalServerError, flow.Outcome{Phase: flow.PhaseError, Err: err})
			return
		}
		attemptID = id
	}

	authURL, err := h.flow.Begin(c.Request.Context(), attemptID)
	if err != nil {
		logger.Error("failed to start login", map[string]any{
			"error": err.Error(),
		})
		h.renderStatus(c, http.StatusInternalServerError, flow.Outcome{Phase: flow.PhaseError, Err: err})
		return
	}

	session.SetCookie(c.Writer, attemptID, h.cookies)
	c.Redirect(http.StatusFound, authURL)
}

// logout clears local state only; the token is not revoked at TikTok.
func (h *Handler) logout(c *gin.Context) {
	h.flow.Logout(c.Request.Context(), session.AttemptID(c.Request))
	session.ClearCookie(c.Writer, h.cookies)

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) render(c *gin.Context, out flow.Outcome) {
	h.renderStatus(c, http.StatusOK, out)
}

func (h *Handler) renderStatus(c *gin.Context, status int, out flow.Outcome) {
	// the page may carry a token preview
	c.Header("Cache-Control", "no-store")
	c.HTML(status, web.IndexTemplate, web.NewPage(out))
}
