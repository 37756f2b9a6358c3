package models

import (
	"net/url"
	"strconv"
)

// ResourceType groups resources (lab, room, auditorium...).
type ResourceType struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Status      int    `json:"estado"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Resource is a bookable physical asset.
type Resource struct {
	ID                 int           `json:"id"`
	TypeID             int           `json:"tipo_recurso_id"`
	Name               string        `json:"nombre"`
	Description        string        `json:"descripcion"`
	Location           string        `json:"ubicacion"`
	Capacity           int           `json:"capacidad"`
	Floor              *int          `json:"planta,omitempty"`
	GenerallyAvailable Flag          `json:"disponibilidad_general"`
	Status             int           `json:"estado"`
	Type               *ResourceType `json:"tipo_recurso,omitempty"`
	ReservationsCount  *int          `json:"reservas_count,omitempty"`
}

// ResourceFilters narrows GET /recursos.
type ResourceFilters struct {
	TypeID    int
	Available *bool
}

// ResourceInput is the admin payload for creating or updating a resource.
type ResourceInput struct {
	TypeID             *int    `json:"tipo_recurso_id,omitempty"`
	Name               *string `json:"nombre,omitempty"`
	Description        *string `json:"descripcion,omitempty"`
	Location           *string `json:"ubicacion,omitempty"`
	Capacity           *int    `json:"capacidad,omitempty"`
	Floor              *int    `json:"planta,omitempty"`
	GenerallyAvailable *bool   `json:"disponibilidad_general,omitempty"`
	Status             *int    `json:"estado,omitempty"`
}

// ResourceTypeInput is the admin payload for resource types.
type ResourceTypeInput struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Status      int    `json:"estado"`
}

// Availability answers GET /recursos/{id}/disponibilidad.
type Availability struct {
	Available bool              `json:"disponible"`
	Conflicts []ConflictSummary `json:"conflictos,omitempty"`
}

// ResourceUsage is one row of the most-used resources report.
type ResourceUsage struct {
	ResourceID        int       `json:"recurso_id"`
	Name              string    `json:"nombre"`
	TotalReservations int       `json:"total_reservas"`
	ReservedHours     float64   `json:"horas_reservadas"`
	Resource          *Resource `json:"recurso,omitempty"`
}

// ResourceSearch holds the optional criteria of GET /recursos/busqueda-avanzada.
type ResourceSearch struct {
	Name        string
	TypeID      int
	Location    string
	MinCapacity int
	Available   *bool
}

// Query renders the non-empty criteria as query parameters.
func (s ResourceSearch) Query() url.Values {
	q := url.Values{}
	if s.Name != "" {
		q.Set("nombre", s.Name)
	}
	if s.TypeID > 0 {
		q.Set("tipo_recurso_id", strconv.Itoa(s.TypeID))
	}
	if s.Location != "" {
		q.Set("ubicacion", s.Location)
	}
	if s.MinCapacity > 0 {
		q.Set("capacidad_minima", strconv.Itoa(s.MinCapacity))
	}
	if s.Available != nil {
		q.Set("disponible", boolParam(*s.Available))
	}
	return q
}

// Query renders the filters of GET /recursos. Availability travels as 1/0.
func (f ResourceFilters) Query() url.Values {
	q := url.Values{}
	if f.TypeID > 0 {
		q.Set("tipo_recurso_id", strconv.Itoa(f.TypeID))
	}
	if f.Available != nil {
		q.Set("disponible", boolParam(*f.Available))
	}
	return q
}

func boolParam(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
