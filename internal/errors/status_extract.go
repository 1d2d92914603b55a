package errors

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const gotStatusMarker = "got status: "

// HTTPStatusFromError recovers an HTTP status code from an upstream error.
// Resolution order: a "got status: <code>" substring, then a JSON-embedded
// {"error":{"code":<n>}} fragment, then 500. A recognized invalid-credential
// message forces 401 regardless of any embedded code.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	msg := err.Error()

	if isCredentialMessage(msg) {
		return http.StatusUnauthorized
	}

	if code := statusFromMarker(msg); code != 0 {
		return code
	}

	if start := strings.IndexByte(msg, '{'); start >= 0 {
		if code := gjson.Get(msg[start:], "error.code"); code.Exists() {
			if n := int(code.Int()); n >= 400 && n <= 599 {
				return n
			}
		}
	}

	return http.StatusInternalServerError
}

func statusFromMarker(msg string) int {
	idx := strings.Index(msg, gotStatusMarker)
	if idx < 0 {
		return 0
	}
	rest := msg[idx+len(gotStatusMarker):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil || n < 100 || n > 599 {
		return 0
	}
	return n
}

func isCredentialMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "api key not valid") ||
		strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "api_key_invalid")
}
