package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the caller ID.
type contextKey string

const accountIDKey contextKey = "accountID"

// RequireAuth enforces authentication on protected routes.
//
// It accepts the access token either as an "Authorization: Bearer" header
// (mobile clients) or a "token" HttpOnly cookie (browser clients), validates
// it, and stores the account ID in the request context. Missing or invalid
// tokens get 401 and the chain stops.
//
// Note: the middleware only proves the token is well-signed. Whether the
// account still exists is checked by the service on every operation; a
// token can outlive its account (deletion) and must then read as stale.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := extractAccountID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthenticated","message":"accessToken is either wrong or expired"}`))
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext retrieves the authenticated caller's account ID from
// the request context. Returns ("", false) on unauthenticated requests.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}

// ContextWithAccountID returns a context carrying the given account ID.
// Used by handler tests to simulate an authenticated request.
func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// extractAccountID reads the token from the Authorization header or the
// cookie and validates it.
func extractAccountID(r *http.Request, tokens *TokenService) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if tokenStr, ok := strings.CutPrefix(header, "Bearer "); ok {
			return tokens.Validate(tokenStr)
		}
	}

	cookie, err := r.Cookie("token")
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
