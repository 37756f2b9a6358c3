package database

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"reservas/models"
	"reservas/utils"
)

// ErrInvalidInput wraps malformed dates.
var ErrInvalidInput = errors.New("invalid input")

type window struct {
	resourceID int
	start, end time.Time
}

// parseWindow reads naive local timestamps. They are compared as wall-clock
// values, so UTC is only a neutral carrier.
func parseWindow(resourceID int, start, end string) (window, error) {
	from, err := utils.ParseLocal(start, time.UTC)
	if err != nil {
		return window{}, fmt.Errorf("%w: fecha_inicio: %v", ErrInvalidInput, err)
	}
	to, err := utils.ParseLocal(end, time.UTC)
	if err != nil {
		return window{}, fmt.Errorf("%w: fecha_fin: %v", ErrInvalidInput, err)
	}
	w := models.ReservationWindow{ResourceID: resourceID, Start: from, End: to}
	if err := w.Validate(); err != nil {
		return window{}, err
	}
	return window{resourceID: resourceID, start: from, end: to}, nil
}

// FindConflicts lists active reservations of the resource overlapping
// [start, end). Intervals touching at an endpoint do not overlap.
func (s *Store) FindConflicts(resourceID int, start, end string) ([]models.ConflictSummary, error) {
	w, err := parseWindow(resourceID, start, end)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conflictsLocked(w, 0), nil
}

// CreateReservation books req for userID. The overlap check runs again under
// the write lock, so a window taken since the caller's pre-check is rejected.
func (s *Store) CreateReservation(userID int, req models.BookingRequest) (*models.Reservation, error) {
	w, err := parseWindow(req.ResourceID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[req.ResourceID]
	if !ok {
		return nil, ErrNotFound
	}
	if !resource.GenerallyAvailable {
		return nil, ErrResourceUnavailable
	}
	if conflicts := s.conflictsLocked(w, 0); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	now := s.timestamp()
	r := &models.Reservation{
		ID:         s.nextID("reservas"),
		UserID:     userID,
		ResourceID: req.ResourceID,
		Start:      utils.FormatLocal(w.start),
		End:        utils.FormatLocal(w.end),
		Status:     models.ReservationActive,
		Comments:   req.Comments,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.reservations[r.ID] = r

	s.logLocked(r.ID, userID, "creada", fmt.Sprintf("%s de %s a %s", resource.Name, r.Start, r.End))
	s.notifyLocked(userID, "reserva_creada", "Reserva confirmada",
		fmt.Sprintf("Tu reserva de %s para %s fue confirmada.", resource.Name, r.Start))
	return s.expandLocked(*r), nil
}

// Reservations lists the reservations of userID, or every reservation when
// all is true, ordered by start.
func (s *Store) Reservations(userID int, all bool) []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Reservation, 0)
	for _, r := range s.reservations {
		if !all && r.UserID != userID {
			continue
		}
		list = append(list, *s.expandLocked(*r))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Start == list[j].Start {
			return list[i].ID < list[j].ID
		}
		return list[i].Start < list[j].Start
	})
	return list
}

// Reservation returns one reservation visible to actor.
func (s *Store) Reservation(id int, actor *models.User) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.ownedLocked(id, actor)
	if err != nil {
		return nil, err
	}
	return s.expandLocked(*r), nil
}

// CancelReservation marks an active reservation as cancelled.
func (s *Store) CancelReservation(id int, actor *models.User) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.ownedLocked(id, actor)
	if err != nil {
		return nil, err
	}
	if r.Status == models.ReservationCancelled {
		return nil, ErrAlreadyCancelled
	}
	r.Status = models.ReservationCancelled
	r.UpdatedAt = s.timestamp()

	s.logLocked(r.ID, actor.ID, "cancelada", "")
	if actor.ID != r.UserID {
		s.notifyLocked(r.UserID, "reserva_cancelada", "Reserva cancelada",
			fmt.Sprintf("Tu reserva del %s fue cancelada por un administrador.", r.Start))
	}
	return s.expandLocked(*r), nil
}

// UpdateReservation edits times and comments. Only admins may change the
// status or the resource.
func (s *Store) UpdateReservation(id int, actor *models.User, input models.UpdateReservationInput) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.ownedLocked(id, actor)
	if err != nil {
		return nil, err
	}
	if (input.Status != nil || input.ResourceID != nil) && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	updated := *r
	if input.ResourceID != nil {
		if _, ok := s.resources[*input.ResourceID]; !ok {
			return nil, ErrNotFound
		}
		updated.ResourceID = *input.ResourceID
	}
	if input.Start != nil {
		updated.Start = *input.Start
	}
	if input.End != nil {
		updated.End = *input.End
	}
	if input.Comments != nil {
		updated.Comments = *input.Comments
	}
	if input.Status != nil {
		if *input.Status != models.ReservationActive && *input.Status != models.ReservationCancelled {
			return nil, fmt.Errorf("%w: estado %q", ErrInvalidInput, *input.Status)
		}
		updated.Status = *input.Status
	}

	w, err := parseWindow(updated.ResourceID, updated.Start, updated.End)
	if err != nil {
		return nil, err
	}
	if updated.Status == models.ReservationActive {
		if conflicts := s.conflictsLocked(w, r.ID); len(conflicts) > 0 {
			return nil, &ConflictError{Conflicts: conflicts}
		}
	}
	updated.Start = utils.FormatLocal(w.start)
	updated.End = utils.FormatLocal(w.end)
	updated.UpdatedAt = s.timestamp()
	*r = updated

	s.logLocked(r.ID, actor.ID, "modificada", fmt.Sprintf("%s a %s", r.Start, r.End))
	return s.expandLocked(*r), nil
}

// History returns the audit log of a reservation visible to actor.
func (s *Store) History(id int, actor *models.User) ([]models.HistoryLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.ownedLocked(id, actor); err != nil {
		return nil, err
	}
	logs := make([]models.HistoryLog, 0)
	for _, entry := range s.history {
		if entry.ReservationID == id {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

func (s *Store) conflictsLocked(w window, excludeID int) []models.ConflictSummary {
	matches := make([]*models.Reservation, 0)
	for _, r := range s.reservations {
		if r.ID == excludeID || r.ResourceID != w.resourceID || r.Status != models.ReservationActive {
			continue
		}
		start, err1 := utils.ParseLocal(r.Start, time.UTC)
		end, err2 := utils.ParseLocal(r.End, time.UTC)
		if err1 != nil || err2 != nil {
			continue
		}
		if start.Before(w.end) && w.start.Before(end) {
			matches = append(matches, r)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })

	conflicts := make([]models.ConflictSummary, 0, len(matches))
	for _, r := range matches {
		name := ""
		if rec, ok := s.users[r.UserID]; ok {
			name = rec.user.Name
		}
		conflicts = append(conflicts, models.ConflictSummary{Requester: name, Start: r.Start, End: r.End})
	}
	return conflicts
}

func (s *Store) ownedLocked(id int, actor *models.User) (*models.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if actor == nil || (r.UserID != actor.ID && !actor.IsAdmin()) {
		return nil, ErrForbidden
	}
	return r, nil
}

func (s *Store) expandLocked(r models.Reservation) *models.Reservation {
	if rec, ok := s.users[r.UserID]; ok {
		r.User = s.withRoleLocked(rec.user)
	}
	if res, ok := s.resources[r.ResourceID]; ok {
		r.Resource = s.withTypeLocked(*res)
	}
	return &r
}

func (s *Store) logLocked(reservationID, userID int, action, detail string) {
	s.history = append(s.history, models.HistoryLog{
		ID:            s.nextID("historial"),
		ReservationID: reservationID,
		UserID:        userID,
		Action:        action,
		Detail:        detail,
		CreatedAt:     s.timestamp(),
	})
}
