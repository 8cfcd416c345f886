package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrStateMismatch means the callback state does not match the one issued
	// for this login attempt. The code must not be exchanged.
	ErrStateMismatch = errors.New("state mismatch")

	// The text of these two is the JSON error body the proxies answer with.
	ErrMethodNotAllowed  = errors.New("Method not allowed")
	ErrMissingCredential = errors.New("No authorization token")

	// ErrGateway wraps transport failures reaching the provider.
	ErrGateway = errors.New("provider unreachable")
)

// GatewayHeader marks proxy replies that the proxy wrote itself because the
// provider could not be reached. Relayed provider payloads never carry it.
const (
	GatewayHeader = "X-Proxy-Error"
	GatewayValue  = "gateway"
)

// ProviderError is an error reported by the provider API itself. Its fields
// are copied from the provider payload, never translated.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
	LogID       string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
	}
	return "provider error " + e.Code
}

// Message is the text shown to the user.
func (e *ProviderError) Message() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}
