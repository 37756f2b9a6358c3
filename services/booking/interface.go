package booking

import (
	"context"

	"reservas/models"
)

// ConflictChecker asks the reservation API whether a window overlaps an
// existing active reservation. start and end are wire-formatted local times.
type ConflictChecker interface {
	CheckConflicts(ctx context.Context, resourceID int, start, end string) (*models.ConflictReport, error)
}

// BookingSubmitter creates a reservation.
type BookingSubmitter interface {
	Create(ctx context.Context, req models.BookingRequest) (*models.Reservation, error)
}
