// Package middleware holds the gin middleware shared by the controllers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionClaims is the key used to store token claims in the Gin context.
	ContextSessionClaims = "sessionClaims"

	// tokenQuery carries the token for clients that cannot set headers, such
	// as browser websockets.
	tokenQuery = "token"
)

// Authorize rejects requests without a valid bearer token and stores the
// token claims in the context.
func Authorize(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		claims, err := ts.Decode(token)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ContextSessionClaims, claims)
		c.Next()
	}
}

// RequireSession only lets through requests whose token was issued for the
// session named by the param route parameter.
func RequireSession(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := Claim(c, "session_id")
		if !ok || !strings.EqualFold(sessionID, c.Param(param)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "token does not belong to this session"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claim returns a string claim stored by Authorize.
func Claim(c *gin.Context, key string) (string, bool) {
	raw, ok := c.Get(ContextSessionClaims)
	if !ok {
		return "", false
	}
	claims, ok := raw.(map[string]interface{})
	if !ok {
		return "", false
	}
	value, ok := claims[key].(string)
	return value, ok
}

func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query(tokenQuery)
		return token, token != ""
	}

	// Split the "Bearer" prefix from the token.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
