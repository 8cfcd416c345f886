package middleware

import (
	"net/http"
	"strings"

	"tiktok-login/internal/auth"

	"github.com/gin-gonic/gin"
)

// AllowMethods answers 405 {"error":"Method not allowed"} for any method not
// listed. Routes using it are registered with router.Any so that every verb
// reaches this check.
func AllowMethods(methods ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}

	allowHeader := strings.Join(methods, ", ")

	return func(c *gin.Context) {
		if _, ok := allowed[c.Request.Method]; ok {
			c.Next()
			return
		}

		c.Header("Allow", allowHeader)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
			"error": auth.ErrMethodNotAllowed.Error(),
		})
	}
}
