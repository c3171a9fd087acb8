package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader is accepted as an alternative to a bearer token, matching
// the header Azure AI Search clients already send.
const APIKeyHeader = "api-key"

// Probes and scrapes never carry credentials.
var openRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// APIKeyAuth rejects requests without a configured key, taken from
// "Authorization: Bearer <key>" or the api-key header. With no non-empty
// keys configured it is a no-op.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	var digests [][sha256.Size]byte
	for _, k := range apiKeys {
		if k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(digests) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openRoutes[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key, msg := presentedKey(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
				return
			}
			if !knownKey(digests, key) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// presentedKey returns the caller's key, or a rejection message.
func presentedKey(r *http.Request) (key, msg string) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return "", "authorization header must use Bearer scheme"
		}
		return token, ""
	}
	if k := r.Header.Get(APIKeyHeader); k != "" {
		return k, ""
	}
	return "", "missing api key"
}

// knownKey compares digests in constant time and checks every key.
func knownKey(digests [][sha256.Size]byte, key string) bool {
	d := sha256.Sum256([]byte(key))
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(d[:], digests[i][:])
	}
	return found == 1
}
