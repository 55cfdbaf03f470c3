package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/security"
	"smartlock.io/smartlock/web/common"
)

const principalKey = "principal"

// Authentication checks for a valid bearer token and injects the embedded
// principal into the request context. Everything behind it can assume an
// authenticated caller; the engine still re-checks, since handlers are not
// the only entry point.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Try to get from cookie
			cookie, err := c.Cookie("smartlock.ApplicationCookie")
			if err != nil {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}

			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}

			tokenStr = parts[1]
		}

		principal, err := security.ParsePrincipalToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal, nil when the request
// never passed the middleware.
func PrincipalFrom(c *gin.Context) *model.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, ok := v.(*model.Principal)
	if !ok {
		return nil
	}
	return principal
}
