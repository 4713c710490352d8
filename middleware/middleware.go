package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the gin context key carrying the authenticated
// principal's user id.
const ContextUserID = "user_id"

// Auth verifies the bearer token and attaches the principal's user id
// to the request context. Everything behind it can assume a verified
// identity.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"status": "fail", "message": "you are not logged in"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(401, gin.H{"status": "fail", "message": "invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"status": "fail", "message": "invalid token claims"})
			return
		}
		uid, ok := claims["user_id"].(float64)
		if !ok || uid <= 0 {
			c.AbortWithStatusJSON(401, gin.H{"status": "fail", "message": "invalid token claims"})
			return
		}

		c.Set(ContextUserID, uint(uid))
		c.Next()
	}
}
