package handlers

import (
	"net/http"
	"strconv"
	"time"

	"reservas/middleware"
	"reservas/models"
	"reservas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login handles POST /login.
func (hb *HandlerBundle) Login(c *gin.Context) {
	logger := getLogger(c)

	var req models.LoginCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, "email", "Invalid request: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		validationFailed(c, "email", "Email and password are required.")
		return
	}

	user, err := hb.Store.Authenticate(req.Email, req.Password)
	if err != nil {
		logger.Info("Login rejected", zap.String("email", req.Email))
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials.", "")
		return
	}

	token, err := utils.GenerateToken(strconv.Itoa(user.ID), user.Email, user.RoleID, hb.TokenTTL)
	if err != nil {
		logger.Error("Token generation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server Error", "could not issue token")
		return
	}

	logger.Info("User logged in", zap.Int("user_id", user.ID))
	c.JSON(http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(hb.TokenTTL / time.Second),
		User:        user,
	})
}

// Logout handles POST /logout by revoking the presented token.
func (hb *HandlerBundle) Logout(c *gin.Context) {
	token := middleware.CurrentToken(c)
	expiresAt := time.Now().Add(hb.TokenTTL)
	if exp, ok, err := utils.TokenExpiry(token); err == nil && ok {
		expiresAt = exp
	}
	hb.Store.RevokeToken(utils.HashToken(token), expiresAt)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Successfully logged out"})
}

// Me handles GET /me.
func (hb *HandlerBundle) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// ChangePasswordFirstLogin handles POST /auth/change-password-first-login.
func (hb *HandlerBundle) ChangePasswordFirstLogin(c *gin.Context) {
	var req models.ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, "new_password", "Invalid request: "+err.Error())
		return
	}
	if len(req.NewPassword) < 8 {
		validationFailed(c, "new_password", "The new password must be at least 8 characters.")
		return
	}
	if req.NewPassword != req.PasswordConfirmation {
		validationFailed(c, "new_password", "The new password confirmation does not match.")
		return
	}
	if err := hb.Store.ChangePassword(req.UserID, req.NewPassword); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated"})
}
