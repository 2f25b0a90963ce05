package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const maxPlainMessage = 200

// extractMessage pulls a readable message out of a failed response body.
// Order: error.message, error (string), message, then the raw text body.
// Returns "" when nothing usable is found.
func extractMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if raw, ok := payload["error"]; ok {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &nested) == nil && strings.TrimSpace(nested.Message) != "" {
				return strings.TrimSpace(nested.Message)
			}
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		if raw, ok := payload["message"]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	var s string
	if json.Unmarshal(body, &s) == nil {
		return truncate(strings.TrimSpace(s))
	}
	if json.Valid(body) {
		return ""
	}
	return truncate(string(body))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxPlainMessage {
		return s
	}
	r := []rune(s)
	return string(r[:maxPlainMessage]) + "…"
}
