package handlers

import (
	"net/http"

	"reservas/middleware"
	"reservas/models"

	"github.com/gin-gonic/gin"
)

// Ping handles GET /ping.
func (hb *HandlerBundle) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: "pong"})
}

// ListNotifications handles GET /notificaciones.
func (hb *HandlerBundle) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": hb.Store.Notifications(middleware.CurrentUser(c).ID)})
}

// MarkNotificationRead handles PUT /notificaciones/:id/leer.
func (hb *HandlerBundle) MarkNotificationRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := hb.Store.MarkNotificationRead(middleware.CurrentUser(c).ID, id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllNotificationsRead handles PUT /notificaciones/marcar-todas-leidas.
func (hb *HandlerBundle) MarkAllNotificationsRead(c *gin.Context) {
	hb.Store.MarkAllNotificationsRead(middleware.CurrentUser(c).ID)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "All notifications marked as read"})
}

// ListUsers handles GET /usuarios (admin).
func (hb *HandlerBundle) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": hb.Store.Users()})
}

// CreateUser handles POST /usuarios (admin).
func (hb *HandlerBundle) CreateUser(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, "email", "Invalid request: "+err.Error())
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		validationFailed(c, "email", "Name, email and password are required.")
		return
	}
	u, err := hb.Store.CreateUser(input)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": u})
}

// ListRoles handles GET /roles (admin).
func (hb *HandlerBundle) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": hb.Store.Roles()})
}
