package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"reservas/database"
	"reservas/models"
	"reservas/utils"

	"github.com/gin-gonic/gin"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// JWTAuthMiddleware requires a valid, non-revoked bearer token and loads its
// user into the context.
func JWTAuthMiddleware(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated.", "missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sub, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated.", "invalid or expired token")
			return
		}
		if store.IsRevoked(utils.HashToken(tokenString)) {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated.", "token revoked")
			return
		}

		userID, err := strconv.Atoi(sub)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated.", "invalid token subject")
			return
		}
		user, err := store.User(userID)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated.", "user not found")
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// CurrentUser returns the user loaded by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentToken returns the raw bearer token of the request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
