package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireBearer adapts the net/http RequireBearer middleware to Gin.
func GinRequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		RequireBearer(next).ServeHTTP(c.Writer, c.Request)

		// RequireBearer answered without calling next
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
