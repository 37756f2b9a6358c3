package handlers

import (
	"net/http"
	"strconv"

	"reservas/models"

	"github.com/gin-gonic/gin"
)

// ListResources handles GET /recursos?tipo_recurso_id=&disponible=1|0.
func (hb *HandlerBundle) ListResources(c *gin.Context) {
	var filters models.ResourceFilters
	if v := c.Query("tipo_recurso_id"); v != "" {
		typeID, err := strconv.Atoi(v)
		if err != nil {
			validationFailed(c, "tipo_recurso_id", "The tipo_recurso_id must be an integer.")
			return
		}
		filters.TypeID = typeID
	}
	if v := c.Query("disponible"); v != "" {
		available := v == "1" || v == "true"
		filters.Available = &available
	}
	c.JSON(http.StatusOK, gin.H{"data": hb.Store.Resources(filters)})
}

// GetResource handles GET /recursos/:id.
func (hb *HandlerBundle) GetResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := hb.Store.Resource(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ResourceAvailability handles GET /recursos/:id/disponibilidad.
func (hb *HandlerBundle) ResourceAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	availability, err := hb.Store.Availability(id, c.Query("fecha_inicio"), c.Query("fecha_fin"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// ListResourceTypes handles GET /tipos-recursos.
func (hb *HandlerBundle) ListResourceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, hb.Store.ResourceTypes())
}

// GetResourceType handles GET /tipos-recursos/:id.
func (hb *HandlerBundle) GetResourceType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := hb.Store.ResourceType(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}
