package notification

import (
	"context"
	"fmt"

	"reservas/models"
	"reservas/services/api"
	"reservas/services/cache"

	"go.uber.org/zap"
)

// Service reads and acknowledges the in-app notifications of the current user.
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
	return &Service{client: client, cache: queryCache, logger: logger.Named("notifications")}
}

func (s *Service) List(ctx context.Context) ([]models.Notification, error) {
	var list []models.Notification
	err := cache.Remember(ctx, s.cache, s.logger, cache.KeyNotifications, &list, func() error {
		return s.client.GetList(ctx, "/notificaciones", nil, &list, "notificaciones")
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// Unread counts the notifications not yet marked as read.
func (s *Service) Unread(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}

func (s *Service) MarkRead(ctx context.Context, id int) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Put(ctx, fmt.Sprintf("/notificaciones/%d/leer", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	s.invalidate(ctx)
	return &resp, nil
}

func (s *Service) MarkAllRead(ctx context.Context) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Put(ctx, "/notificaciones/marcar-todas-leidas", nil, &resp); err != nil {
		return nil, fmt.Errorf("mark all notifications read: %w", err)
	}
	s.invalidate(ctx)
	return &resp, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyNotifications); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}
