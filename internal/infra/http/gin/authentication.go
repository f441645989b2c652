package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const principalContextKey = "sharetools.principal"

// principal is the caller identity taken from the X-User-ID header. The
// edge proxy authenticates the user; this service only trusts the header
// it forwards.
type principal struct {
	ID string
}

// IdentityMiddleware stores the forwarded user id, when present, on the
// request context. Routes that need a caller use requireUser.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if id != "" {
			c.Set(principalContextKey, principal{ID: id})
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return principal{}, false
	}
	return p, true
}
