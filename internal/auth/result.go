package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Result is one provider response. Body is the exact payload the provider
// sent. Err is set when that payload describes a failure.
type Result struct {
	StatusCode int
	Body       json.RawMessage
	Err        *ProviderError
}

func (r *Result) OK() bool {
	return r.Err == nil
}

// ParseResult classifies a provider response. Token errors arrive as
// {"error": "...", "error_description": "..."}, user-info errors as
// {"error": {"code": "...", "message": "...", "log_id": "..."}} where only
// code "ok" means success. A body that is not a JSON object is an error.
func ParseResult(status int, body []byte) (*Result, error) {
	var envelope struct {
		Error            json.RawMessage `json:"error"`
		ErrorDescription string          `json:"error_description"`
		LogID            string          `json:"log_id"`
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrGateway)
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}

	res := &Result{
		StatusCode: status,
		Body:       json.RawMessage(body),
	}

	if pe := providerError(envelope.Error, envelope.ErrorDescription, envelope.LogID); pe != nil {
		pe.StatusCode = status
		res.Err = pe
		return res, nil
	}

	if status >= http.StatusBadRequest {
		res.Err = &ProviderError{
			StatusCode: status,
			Code:       fmt.Sprintf("http_%d", status),
		}
	}

	return res, nil
}

func providerError(raw json.RawMessage, description string, logID string) *ProviderError {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var code string
	if err := json.Unmarshal(raw, &code); err == nil {
		if code == "" {
			return nil
		}
		return &ProviderError{Code: code, Description: description, LogID: logID}
	}

	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		LogID   string `json:"log_id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &ProviderError{Code: string(raw), Description: description, LogID: logID}
	}

	if obj.Code == "" || obj.Code == "ok" {
		return nil
	}

	return &ProviderError{Code: obj.Code, Description: obj.Message, LogID: obj.LogID}
}
