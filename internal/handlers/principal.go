package handlers

import (
	"net/http"
	"strings"
)

// userHeader carries the authenticated principal. Authentication itself
// happens upstream (reverse proxy or gateway); this service trusts the
// header and scopes every operation to it.
const userHeader = "X-User-ID"

// RequireUser extracts the calling principal from the request. Returns
// false after writing a 401 response when the header is absent.
func RequireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(userHeader))
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Missing "+userHeader+" header")
		return "", false
	}
	return userID, true
}
