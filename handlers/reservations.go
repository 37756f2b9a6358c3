package handlers

import (
	"net/http"

	"reservas/middleware"
	"reservas/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckConflicts handles POST /reservas/verificar-conflictos.
func (hb *HandlerBundle) CheckConflicts(c *gin.Context) {
	var req models.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, "recurso_id", "Invalid request: "+err.Error())
		return
	}
	if _, err := hb.Store.Resource(req.ResourceID); err != nil {
		respondStoreError(c, err)
		return
	}

	conflicts, err := hb.Store.FindConflicts(req.ResourceID, req.Start, req.End)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConflictReport{HasConflict: len(conflicts) > 0, Conflicts: conflicts})
}

// ListReservations handles GET /reservas. Admins see every reservation.
func (hb *HandlerBundle) ListReservations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"data": hb.Store.Reservations(user.ID, user.IsAdmin())})
}

// CreateReservation handles POST /reservas.
func (hb *HandlerBundle) CreateReservation(c *gin.Context) {
	logger := getLogger(c)
	user := middleware.CurrentUser(c)

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, "recurso_id", "Invalid request: "+err.Error())
		return
	}

	created, err := hb.Store.CreateReservation(user.ID, req)
	if err != nil {
		logger.Info("Reservation rejected", zap.Int("resource_id", req.ResourceID), zap.Error(err))
		respondStoreError(c, err)
		return
	}

	logger.Info("Reservation created", zap.Int("reservation_id", created.ID), zap.Int("user_id", user.ID))
	c.JSON(http.StatusCreated, models.ReservationResponse{Message: "Reservation created successfully", Reservation: created})
}

// GetReservation handles GET /reservas/:id.
func (hb *HandlerBundle) GetReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := hb.Store.Reservation(id, middleware.CurrentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": r})
}

// UpdateReservation handles PUT /reservas/:id.
func (hb *HandlerBundle) UpdateReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, "fecha_inicio", "Invalid request: "+err.Error())
		return
	}
	r, err := hb.Store.UpdateReservation(id, middleware.CurrentUser(c), input)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ReservationResponse{Message: "Reservation updated successfully", Reservation: r})
}

// CancelReservation handles PUT /reservas/:id/cancelar.
func (hb *HandlerBundle) CancelReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := hb.Store.CancelReservation(id, middleware.CurrentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	getLogger(c).Info("Reservation cancelled", zap.Int("reservation_id", id))
	c.JSON(http.StatusOK, models.ReservationResponse{Message: "Reservation cancelled successfully", Reservation: r})
}

// ReservationHistory handles GET /reservas/:id/historial.
func (hb *HandlerBundle) ReservationHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	logs, err := hb.Store.History(id, middleware.CurrentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}

// Statistics handles GET /reservas/reportes/estadisticas.
func (hb *HandlerBundle) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, hb.Store.Stats(c.Query("fecha_desde"), c.Query("fecha_hasta")))
}
