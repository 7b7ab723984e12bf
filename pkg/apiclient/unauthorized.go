package apiclient

import (
	"encoding/json"
	"net/http"
	"strings"
)

// unauthorizedMarkers are the known upstream error strings that all mean
// "the caller's credential is invalid". Matched case-insensitively.
var unauthorizedMarkers = map[string]struct{}{
	"unauthorized":      {},
	"no token provided": {},
	"token expired":     {},
	"jwt expired":       {},
	"invalid token":     {},
	"missing token":     {},
}

// IsUnauthorized detects every shape the upstream uses to signal a
// rejected credential: a transport-level 401, a semantic error object in
// the body, or the same shape nested one level inside a success envelope.
func IsUnauthorized(status int, body []byte) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	if len(body) == 0 {
		return false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}

	if objectUnauthorized(payload) {
		return true
	}

	// One level of nesting covers error objects wrapped in an envelope.
	for _, v := range payload {
		if nested, ok := v.(map[string]any); ok && objectUnauthorized(nested) {
			return true
		}
	}

	return false
}

func objectUnauthorized(obj map[string]any) bool {
	if status, ok := obj["status"].(float64); ok && int(status) == http.StatusUnauthorized {
		return true
	}
	for _, key := range []string{"error", "message"} {
		if s, ok := obj[key].(string); ok {
			if _, known := unauthorizedMarkers[strings.ToLower(strings.TrimSpace(s))]; known {
				return true
			}
		}
	}
	return false
}
