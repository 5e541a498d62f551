package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xytext/xytext/internal/identity"
)

// ContextUsername is the gin context key carrying the resolved username.
const ContextUsername = "username"

// Credential extracts the raw credential from a request: the configured
// cookie first, then a Bearer Authorization header. Empty when neither is
// present.
func Credential(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// IdentityMiddleware resolves the request's credential once and stores the
// username in the gin context. Resolution failure degrades to anonymous and
// never rejects the request; authorization happens downstream against the
// requested path.
func IdentityMiddleware(resolver identity.Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := resolver.Resolve(c.Request.Context(), Credential(c, cookieName))
		if err != nil || name == "" {
			name = identity.Anonymous
		}
		c.Set(ContextUsername, name)
		c.Next()
	}
}

// Username returns the resolved username for the request, or anonymous when
// the identity middleware did not run.
func Username(c *gin.Context) string {
	if v, ok := c.Get(ContextUsername); ok {
		if name, ok2 := v.(string); ok2 && name != "" {
			return name
		}
	}
	return identity.Anonymous
}
