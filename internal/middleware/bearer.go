package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tiktok-login/internal/auth"
)

const bearerPrefix = "Bearer "

// unexported, collision-proof context key
type bearerContextKeyType struct{}

var bearerKey = bearerContextKeyType{}

// BearerTokenFromContext returns the token RequireBearer accepted.
func BearerTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(bearerKey).(string)
	return tok, ok
}

// ParseBearer extracts the token from an Authorization header value.
// The scheme is case-sensitive and the token must be a single non-empty word.
func ParseBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	tok := strings.TrimSpace(header[len(bearerPrefix):])
	if tok == "" || strings.ContainsAny(tok, " \t\r\n") {
		return "", false
	}
	return tok, true
}

// RequireBearer rejects requests without a well-formed bearer token with 401.
// The token itself is not validated; the provider does that.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := ParseBearer(r.Header.Get("Authorization"))
		if !ok {
			writeJSONError(w, auth.ErrMissingCredential.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), bearerKey, tok)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
