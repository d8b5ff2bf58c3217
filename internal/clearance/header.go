package clearance

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderClearance is read by the REST surface.
	HeaderClearance = "Security-Clearance"
	// HeaderAuthorization is read by the GraphQL surface, as "SecurityLevel <n>".
	HeaderAuthorization = "Authorization"

	authorizationScheme = "SecurityLevel "
)

// ParseLevel parses a bare integer clearance. Absent or non-numeric values yield None.
func ParseLevel(raw string) Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return None
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return None
	}
	return Level(n)
}

// ParseAuthorization parses an "SecurityLevel <n>" header value.
func ParseAuthorization(raw string) Level {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, authorizationScheme) {
		return None
	}
	return ParseLevel(strings.TrimPrefix(raw, authorizationScheme))
}

// FromHeader injects the Security-Clearance header into the request context.
// It never rejects; the hazard policy decides what a missing clearance may do.
func FromHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		l := ParseLevel(c.GetHeader(HeaderClearance))
		c.Request = c.Request.WithContext(WithLevel(c.Request.Context(), l))
		c.Set("security_level", int(l))
		c.Next()
	}
}

// FromAuthorization reads the Authorization header once per request and stores the level
// in the request context for downstream resolvers.
func FromAuthorization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := ParseAuthorization(r.Header.Get(HeaderAuthorization))
		next.ServeHTTP(w, r.WithContext(WithLevel(r.Context(), l)))
	})
}
