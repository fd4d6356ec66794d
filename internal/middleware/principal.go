package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/domain"
)

// Headers set by the upstream auth gateway once it has authenticated the
// caller. This service never issues sessions itself; it only consumes the
// resolved identity and hands it to core operations as an explicit value.
const (
	principalIDHeader   = "X-Principal-Id"
	principalNameHeader = "X-Principal-Name"
	principalRoleHeader = "X-Principal-Role"
)

const principalContextKey = "principal"

// RequirePrincipal rejects requests that carry no resolved principal and
// stores the principal for handlers to pass into core operations.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(principalIDHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(principalContextKey, domain.Principal{
			UserID: id,
			Name:   c.GetHeader(principalNameHeader),
			Role:   domain.Role(c.GetHeader(principalRoleHeader)),
		})

		c.Next()
	}
}

// PrincipalFrom returns the principal stored by RequirePrincipal, or the
// zero principal when the middleware did not run.
func PrincipalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalContextKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}
