package middleware

import (
	"net/http"

	"reservas/utils"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware must run after JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			utils.JSONError(c, http.StatusForbidden, "This action is unauthorized.", "admin role required")
			return
		}
		c.Next()
	}
}
