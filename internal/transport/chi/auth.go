package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicPaths skip authentication.
var publicPaths = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware rejects requests without a known API key.
// Keys are read from "Authorization: Bearer <key>" (scheme is case-insensitive).
// With no configured keys the middleware is a pass-through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r.Header.Get("Authorization"))
			if msg != "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
				return
			}
			if !knownKey(keys, token) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token, or returns a rejection message.
func bearerToken(header string) (token []byte, msg string) {
	if header == "" {
		return nil, "missing authorization header"
	}
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, "authorization header must use Bearer scheme"
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, "empty bearer token"
	}
	return []byte(rest), ""
}

// knownKey compares in constant time against every key.
func knownKey(keys [][]byte, token []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}
