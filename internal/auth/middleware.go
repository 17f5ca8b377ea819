package auth

import (
	"encoding/json"
	"net/http"
)

// OptionalAuth attaches the caller to the request context when one can be
// identified and lets anonymous requests through.
func (v *Verifier) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, identity := v.Authenticate(r.Header.Get("Authorization"), r.Header.Get(RoleHeader))
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p, identity)))
	})
}

// RequireAuth rejects requests without a valid bearer token.
func (v *Verifier) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken, ok := ExtractBearerToken(r.Header.Get("Authorization"))
		if !ok {
			abortUnauthorized(w, "authentication required")
			return
		}
		p, err := v.Verify(rawToken)
		if err != nil {
			abortUnauthorized(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p, p.Identity())))
	})
}

func abortUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="product-showcase"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "UNAUTHORIZED"})
}
