package models

import "net/url"

// SystemStats answers GET /reservas/reportes/estadisticas.
type SystemStats struct {
	Period struct {
		From string `json:"desde"`
		To   string `json:"hasta"`
	} `json:"periodo"`
	Totals struct {
		Total     int `json:"total_reservas"`
		Active    int `json:"reservas_activas"`
		Cancelled int `json:"reservas_canceladas"`
	} `json:"totales"`
	Averages struct {
		PerUser     float64 `json:"reservas_por_usuario"`
		PerResource float64 `json:"reservas_por_recurso"`
	} `json:"promedios"`
	TopUsers       []UserCount `json:"top_usuarios"`
	ByResourceType []TypeCount `json:"reservas_por_tipo_recurso"`
}

// UserCount is one row of the top users ranking.
type UserCount struct {
	User              string `json:"usuario"`
	TotalReservations int    `json:"total_reservas"`
}

// TypeCount is the number of reservations for one resource type.
type TypeCount struct {
	Type              string `json:"tipo"`
	TotalReservations int    `json:"total_reservas"`
}

// UserReport answers GET /reservas/reportes/por-usuario/{id}.
type UserReport struct {
	User         *User         `json:"usuario,omitempty"`
	Total        int           `json:"total_reservas"`
	Reservations []Reservation `json:"reservas"`
}

// ReportFilters bounds report queries. Empty values are omitted.
type ReportFilters struct {
	From   string // YYYY-MM-DD
	To     string
	Status string
}

// Query renders the filters as report query parameters.
func (f ReportFilters) Query() url.Values {
	q := url.Values{}
	if f.From != "" {
		q.Set("fecha_desde", f.From)
	}
	if f.To != "" {
		q.Set("fecha_hasta", f.To)
	}
	if f.Status != "" {
		q.Set("estado", f.Status)
	}
	return q
}
