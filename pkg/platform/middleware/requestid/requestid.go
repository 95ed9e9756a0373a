// Package requestid assigns a correlation ID to every request.
package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"tradeverify/pkg/requestcontext"
)

// Header is the request/response header carrying the correlation ID.
const Header = "X-Request-ID"

// Caller-supplied IDs are accepted only when they look like an opaque token.
var validID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Middleware reuses a well-formed inbound X-Request-ID or generates a UUID,
// stores it in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !validID.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
