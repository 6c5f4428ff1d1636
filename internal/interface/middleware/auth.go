package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserRolesKey = "userRoles"
)

// Auth validates the bearer access token and injects the verified claims
// into the Gin context. The access token never travels in a cookie.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Set(CtxUserRolesKey, claims.Roles)
		c.Next()
	}
}

// RequireRoles short-circuits with 403 unless the verified claims carry at
// least one of the given roles. Must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have, _ := c.Get(CtxUserRolesKey)
		userRoles, _ := have.([]string)
		for _, want := range roles {
			for _, r := range userRoles {
				if r == want {
					c.Next()
					return
				}
			}
		}
		resp := response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
		c.AbortWithStatusJSON(resp.Status, resp)
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
