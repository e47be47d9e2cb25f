package kit

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const metricsRealm = `Bearer realm="metrics"`

// MetricsAuth guards the scrape endpoint with a static bearer token.
// Requests without bearer credentials get 401 and a challenge; a wrong
// token gets 403. An empty token locks the endpoint for everyone.
func MetricsAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				WriteError(w, r, http.StatusForbidden, "metrics disabled", nil)
				return
			}

			got, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", metricsRealm)
				WriteError(w, r, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				WriteError(w, r, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the credentials of an "Authorization: Bearer x"
// header. The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, cred, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	cred = strings.TrimSpace(cred)
	return cred, cred != ""
}
