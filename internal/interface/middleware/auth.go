package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/helpers"
)

const ctxClaimsKey = "authClaims"

// Auth gates protected routes on a bearer token. On success the verified
// claims are attached to the context for downstream handlers; the gate keeps
// no state between requests.
func Auth(tokens *helpers.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, apperr.Unauthorized("Authorization header missing"))
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if token == "" {
			abortWith(c, apperr.Unauthorized("Token missing"))
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			abortWith(c, apperr.Unauthorized(err.Error()))
			return
		}
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the verified claims set by Auth, or nil when the request
// did not pass the gate.
func ClaimsFrom(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*helpers.Claims)
	return claims
}

func abortWith(c *gin.Context, err *apperr.Error) {
	_ = c.Error(err)
	c.Abort()
}
