package httpapi

import (
	"crypto/subtle"
	"net/http"
)

// Function-key carriers, matching the Azure Functions conventions.
const (
	keyQueryParam = "code"
	keyHeader     = "x-functions-key"
)

// requireKey wraps next with function-key authentication.
// An empty key list disables authentication entirely.
func requireKey(keys []string, next http.HandlerFunc) http.HandlerFunc {
	if len(keys) == 0 {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		presented := r.URL.Query().Get(keyQueryParam)
		if presented == "" {
			presented = r.Header.Get(keyHeader)
		}

		if !keyMatches(keys, presented) {
			writeError(w, http.StatusUnauthorized, "invalid or missing function key")
			return
		}

		next(w, r)
	}
}

// keyMatches checks presented against every configured key in constant
// time per comparison.
func keyMatches(keys []string, presented string) bool {
	if presented == "" {
		return false
	}

	matched := false
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(presented)) == 1 {
			matched = true
		}
	}
	return matched
}
