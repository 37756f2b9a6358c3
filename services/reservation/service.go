package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"reservas/models"
	"reservas/services/api"
	"reservas/services/cache"

	"go.uber.org/zap"
)

// Service wraps the /reservas endpoints. It is the conflict checker and the
// booking submitter of the booking protocol.
type Service struct {
	client *api.Client
	cache  cache.QueryCache
	logger *zap.Logger
}

func NewService(client *api.Client, queryCache cache.QueryCache, logger *zap.Logger) *Service {
	if queryCache == nil {
		queryCache = cache.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, cache: queryCache, logger: logger.Named("reservations")}
}

// CheckConflicts asks the API whether [start, end) overlaps an active
// reservation of the resource. start and end are wire-formatted local times.
// Any failure is returned as an error; it never means "no conflict".
func (s *Service) CheckConflicts(ctx context.Context, resourceID int, start, end string) (*models.ConflictReport, error) {
	body := models.ConflictCheckRequest{ResourceID: resourceID, Start: start, End: end}

	var raw json.RawMessage
	if err := s.client.Post(ctx, "/reservas/verificar-conflictos", body, &raw); err != nil {
		return nil, fmt.Errorf("check conflicts for resource %d: %w", resourceID, err)
	}
	report, err := decodeConflictReport(raw)
	if err != nil {
		return nil, fmt.Errorf("check conflicts for resource %d: %w", resourceID, err)
	}

	s.logger.Debug("Conflict check answered",
		zap.Int("resource_id", resourceID),
		zap.String("start", start),
		zap.String("end", end),
		zap.Bool("has_conflict", report.HasConflict),
		zap.Int("conflicts", len(report.Conflicts)))
	return report, nil
}

// ErrMalformedConflictReport is returned when a conflict check answers 2xx
// without a usable hay_conflicto verdict.
var ErrMalformedConflictReport = errors.New("malformed conflict check response")

func decodeConflictReport(data []byte) (*models.ConflictReport, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedConflictReport)
	}
	var wire struct {
		HasConflict *models.Flag             `json:"hay_conflicto"`
		Conflicts   []models.ConflictSummary `json:"conflictos"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConflictReport, err)
	}
	if wire.HasConflict == nil {
		return nil, fmt.Errorf("%w: missing hay_conflicto", ErrMalformedConflictReport)
	}
	return &models.ConflictReport{HasConflict: bool(*wire.HasConflict), Conflicts: wire.Conflicts}, nil
}

// Create books a reservation and drops the cached views it makes stale.
func (s *Service) Create(ctx context.Context, req models.BookingRequest) (*models.Reservation, error) {
	var resp models.ReservationResponse
	if err := s.client.Post(ctx, "/reservas", req, &resp); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	s.invalidate(ctx)

	created := resp.Reservation
	if created == nil {
		created = &models.Reservation{
			ResourceID: req.ResourceID,
			Start:      req.Start,
			End:        req.End,
			Comments:   req.Comments,
			Status:     models.ReservationActive,
		}
	}
	s.logger.Info("Reservation created",
		zap.Int("reservation_id", created.ID),
		zap.Int("resource_id", req.ResourceID),
		zap.String("start", req.Start),
		zap.String("end", req.End))
	return created, nil
}

// Cancel cancels a reservation.
func (s *Service) Cancel(ctx context.Context, id int) (*models.ReservationResponse, error) {
	var resp models.ReservationResponse
	if err := s.client.Put(ctx, fmt.Sprintf("/reservas/%d/cancelar", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("cancel reservation %d: %w", id, err)
	}
	s.invalidate(ctx)
	s.logger.Info("Reservation cancelled", zap.Int("reservation_id", id))
	return &resp, nil
}

// Update edits a reservation. Status and resource changes are admin only.
func (s *Service) Update(ctx context.Context, id int, input models.UpdateReservationInput) (*models.ReservationResponse, error) {
	var resp models.ReservationResponse
	if err := s.client.Put(ctx, fmt.Sprintf("/reservas/%d", id), input, &resp); err != nil {
		return nil, fmt.Errorf("update reservation %d: %w", id, err)
	}
	s.invalidate(ctx)
	return &resp, nil
}

// Get fetches one reservation.
func (s *Service) Get(ctx context.Context, id int) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.client.GetItem(ctx, fmt.Sprintf("/reservas/%d", id), &r, "data", "reserva"); err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return &r, nil
}

// Mine lists the reservations visible to the current user (all of them for
// admins). The answer is cached until a mutation invalidates it.
func (s *Service) Mine(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	err := cache.Remember(ctx, s.cache, s.logger, cache.KeyMyReservations, &list, func() error {
		return s.client.GetList(ctx, "/reservas", nil, &list)
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}

// History returns the audit trail of a reservation.
func (s *Service) History(ctx context.Context, id int) ([]models.HistoryLog, error) {
	var logs []models.HistoryLog
	if err := s.client.GetList(ctx, fmt.Sprintf("/reservas/%d/historial", id), nil, &logs); err != nil {
		return nil, fmt.Errorf("reservation %d history: %w", id, err)
	}
	return logs, nil
}

// ReportByUser returns the reservations report of one user.
func (s *Service) ReportByUser(ctx context.Context, userID int, filters models.ReportFilters) (*models.UserReport, error) {
	var report models.UserReport
	path := "/reservas/reportes/por-usuario/" + strconv.Itoa(userID)
	if err := s.client.Get(ctx, path, filters.Query(), &report); err != nil {
		return nil, fmt.Errorf("report for user %d: %w", userID, err)
	}
	return &report, nil
}

// ReportByResource returns reservation totals per resource.
func (s *Service) ReportByResource(ctx context.Context, filters models.ReportFilters) ([]models.ResourceUsage, error) {
	var rows []models.ResourceUsage
	if err := s.client.GetList(ctx, "/reservas/reportes/por-recurso", filters.Query(), &rows); err != nil {
		return nil, fmt.Errorf("report by resource: %w", err)
	}
	return rows, nil
}

// Stats returns aggregated statistics for [from, to] (YYYY-MM-DD, both optional).
func (s *Service) Stats(ctx context.Context, from, to string) (*models.SystemStats, error) {
	var stats models.SystemStats
	key := fmt.Sprintf("%s:%s:%s", cache.KeyStatistics, from, to)
	err := cache.Remember(ctx, s.cache, s.logger, key, &stats, func() error {
		query := models.ReportFilters{From: from, To: to}.Query()
		return s.client.Get(ctx, "/reservas/reportes/estadisticas", query, &stats)
	})
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	return &stats, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyMyReservations, cache.KeyStatistics); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}
