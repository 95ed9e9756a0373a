package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"tradeverify/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the middleware's view of a validated token.
type JWTClaims struct {
	Subject string
	Scopes  []string
	JTI     string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token carrying scope.
// An empty scope only requires a valid token. The token subject is stored
// in the request context.
func RequireAuth(validator JWTValidator, scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if scope != "" && !slices.Contains(claims.Scopes, scope) {
				logger.WarnContext(ctx, "forbidden - missing scope",
					"subject", claims.Subject,
					"scope", scope,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Token lacks required scope")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSubject(ctx, claims.Subject)))
		})
	}
}
