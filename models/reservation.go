package models

import (
	"errors"
	"time"
)

// Reservation status values as stored by the API.
const (
	ReservationActive    = "activa"
	ReservationCancelled = "cancelada"
)

// Reservation represents a reservation record returned by the API.
type Reservation struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	ResourceID int       `json:"recurso_id"`
	Start      string    `json:"fecha_inicio"` // "YYYY-MM-DD HH:mm:ss", naive local time
	End        string    `json:"fecha_fin"`
	Status     string    `json:"estado"` // "activa" or "cancelada"
	Comments   string    `json:"comentarios"`
	User       *User     `json:"user,omitempty"`
	Resource   *Resource `json:"recurso,omitempty"`
	CreatedAt  string    `json:"created_at,omitempty"`
	UpdatedAt  string    `json:"updated_at,omitempty"`
}

// ReservationWindow is the candidate [Start, End) interval a user wants to book.
// It is built transiently from user input and never persisted.
type ReservationWindow struct {
	ResourceID int
	Start      time.Time
	End        time.Time
}

// ErrInvalidWindow is returned by Validate when End is not strictly after Start.
var ErrInvalidWindow = errors.New("end must be after start")

// Validate checks the window invariant.
func (w ReservationWindow) Validate() error {
	if !w.End.After(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// ConflictCheckRequest is the body of POST /reservas/verificar-conflictos.
type ConflictCheckRequest struct {
	ResourceID int    `json:"recurso_id"`
	Start      string `json:"fecha_inicio"`
	End        string `json:"fecha_fin"`
}

// ConflictSummary describes one existing reservation colliding with a window.
type ConflictSummary struct {
	Requester string `json:"usuario"`
	Start     string `json:"fecha_inicio"` // server formatted
	End       string `json:"fecha_fin"`
}

// ConflictReport is the answer to a conflict check. Conflicts may be empty
// even when HasConflict is true.
type ConflictReport struct {
	HasConflict bool              `json:"hay_conflicto"`
	Conflicts   []ConflictSummary `json:"conflictos"`
}

// BookingRequest is the body of POST /reservas.
type BookingRequest struct {
	ResourceID int    `json:"recurso_id"`
	Start      string `json:"fecha_inicio"`
	End        string `json:"fecha_fin"`
	Comments   string `json:"comentarios,omitempty"`
}

// UpdateReservationInput is the body of PUT /reservas/{id}. Status and
// ResourceID are admin only.
type UpdateReservationInput struct {
	Start      *string `json:"fecha_inicio,omitempty"`
	End        *string `json:"fecha_fin,omitempty"`
	Comments   *string `json:"comentarios,omitempty"`
	Status     *string `json:"estado,omitempty"`
	ResourceID *int    `json:"recurso_id,omitempty"`
}

// ReservationResponse wraps mutations on a reservation.
type ReservationResponse struct {
	Message     string       `json:"message"`
	Reservation *Reservation `json:"reserva"`
}

// HistoryLog is one audit entry of a reservation.
type HistoryLog struct {
	ID            int    `json:"id"`
	ReservationID int    `json:"reserva_id"`
	UserID        int    `json:"user_id"`
	Action        string `json:"accion"`
	Detail        string `json:"detalle"`
	CreatedAt     string `json:"created_at"`
	User          *User  `json:"user,omitempty"`
}
