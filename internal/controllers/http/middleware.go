package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/auth"
	"storefront-api/internal/domain"
	"storefront-api/internal/services"
)

const claimsKey = "auth_claims"

// RequireAuth accepts "Authorization: Bearer <token>" and stores the verified
// claims on the context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			fail(c, services.ErrUnauthorized)
			return
		}
		claims, err := h.auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			fail(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly must run after RequireAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil {
			fail(c, services.ErrUnauthorized)
			return
		}
		if claims.Role != domain.RoleAdmin {
			fail(c, services.ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func currentUserID(c *gin.Context) uint64 {
	if claims := currentClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
