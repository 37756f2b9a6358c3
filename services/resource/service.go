package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"reservas/models"
	"reservas/services/api"
	"reservas/services/cache"

	"go.uber.org/zap"
)

// Service wraps the /recursos and /tipos-recursos endpoints.
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
	return &Service{client: client, cache: queryCache, logger: logger.Named("resources")}
}

// List returns the resources matching filters.
func (s *Service) List(ctx context.Context, filters models.ResourceFilters) ([]models.Resource, error) {
	query := filters.Query()
	key := cache.KeyResources + ":" + query.Encode()

	var list []models.Resource
	err := cache.Remember(ctx, s.cache, s.logger, key, &list, func() error {
		return s.client.GetList(ctx, "/recursos", query, &list, "recursos")
	})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	s.logger.Debug("Resources listed", zap.String("query", query.Encode()), zap.Int("count", len(list)))
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int) (*models.Resource, error) {
	var r models.Resource
	if err := s.client.GetItem(ctx, "/recursos/"+strconv.Itoa(id), &r, "data", "recurso"); err != nil {
		return nil, fmt.Errorf("get resource %d: %w", id, err)
	}
	return &r, nil
}

// Types lists resource types.
func (s *Service) Types(ctx context.Context) ([]models.ResourceType, error) {
	var types []models.ResourceType
	err := cache.Remember(ctx, s.cache, s.logger, cache.KeyResourceTypes, &types, func() error {
		return s.client.GetList(ctx, "/tipos-recursos", nil, &types, "tipos", "tipos_recursos")
	})
	if err != nil {
		return nil, fmt.Errorf("list resource types: %w", err)
	}
	return types, nil
}

func (s *Service) GetType(ctx context.Context, id int) (*models.ResourceType, error) {
	var t models.ResourceType
	if err := s.client.GetItem(ctx, "/tipos-recursos/"+strconv.Itoa(id), &t, "data", "tipo_recurso"); err != nil {
		return nil, fmt.Errorf("get resource type %d: %w", id, err)
	}
	return &t, nil
}

// Availability reports whether the resource is free in [start, end).
// start and end are wire-formatted local times.
func (s *Service) Availability(ctx context.Context, id int, start, end string) (*models.Availability, error) {
	var availability models.Availability
	query := url.Values{"fecha_inicio": {start}, "fecha_fin": {end}}
	if err := s.client.Get(ctx, fmt.Sprintf("/recursos/%d/disponibilidad", id), query, &availability); err != nil {
		return nil, fmt.Errorf("availability of resource %d: %w", id, err)
	}
	return &availability, nil
}

func (s *Service) SearchAdvanced(ctx context.Context, search models.ResourceSearch) ([]models.Resource, error) {
	var list []models.Resource
	if err := s.client.GetList(ctx, "/recursos/busqueda-avanzada", search.Query(), &list); err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	return list, nil
}

// AvailableByType lists resources of a type that are free in [start, end).
// Empty bounds are left out of the query.
func (s *Service) AvailableByType(ctx context.Context, typeID int, start, end string) ([]models.Resource, error) {
	query := url.Values{}
	if start != "" {
		query.Set("fecha_inicio", start)
	}
	if end != "" {
		query.Set("fecha_fin", end)
	}
	var list []models.Resource
	if err := s.client.GetList(ctx, fmt.Sprintf("/recursos/tipo/%d/disponibles", typeID), query, &list); err != nil {
		return nil, fmt.Errorf("available resources of type %d: %w", typeID, err)
	}
	return list, nil
}

// MostUsed ranks resources by reservations between from and to (YYYY-MM-DD).
func (s *Service) MostUsed(ctx context.Context, limit int, from, to string) ([]models.ResourceUsage, error) {
	if limit <= 0 {
		limit = 10
	}
	query := url.Values{"limite": {strconv.Itoa(limit)}}
	if from != "" {
		query.Set("fecha_desde", from)
	}
	if to != "" {
		query.Set("fecha_hasta", to)
	}
	var rows []models.ResourceUsage
	if err := s.client.GetList(ctx, "/recursos/reportes/mas-utilizados", query, &rows); err != nil {
		return nil, fmt.Errorf("most used resources: %w", err)
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, input models.ResourceInput) (*models.Resource, error) {
	var r models.Resource
	if err := s.postItem(ctx, "/recursos", input, &r, "recurso"); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	s.invalidate(ctx, cache.KeyResources)
	s.logger.Info("Resource created", zap.Int("resource_id", r.ID), zap.String("name", r.Name))
	return &r, nil
}

func (s *Service) Update(ctx context.Context, id int, input models.ResourceInput) (*models.Resource, error) {
	var r models.Resource
	if err := s.putItem(ctx, "/recursos/"+strconv.Itoa(id), input, &r, "recurso"); err != nil {
		return nil, fmt.Errorf("update resource %d: %w", id, err)
	}
	s.invalidate(ctx, cache.KeyResources)
	return &r, nil
}

func (s *Service) Delete(ctx context.Context, id int) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Delete(ctx, "/recursos/"+strconv.Itoa(id), &resp); err != nil {
		return nil, fmt.Errorf("delete resource %d: %w", id, err)
	}
	s.invalidate(ctx, cache.KeyResources)
	s.logger.Info("Resource deleted", zap.Int("resource_id", id))
	return &resp, nil
}

func (s *Service) CreateType(ctx context.Context, input models.ResourceTypeInput) (*models.ResourceType, error) {
	var t models.ResourceType
	if err := s.postItem(ctx, "/tipos-recursos", input, &t, "tipo_recurso"); err != nil {
		return nil, fmt.Errorf("create resource type: %w", err)
	}
	s.invalidate(ctx, cache.KeyResourceTypes, cache.KeyResources)
	return &t, nil
}

func (s *Service) UpdateType(ctx context.Context, id int, input models.ResourceTypeInput) (*models.ResourceType, error) {
	var t models.ResourceType
	if err := s.putItem(ctx, "/tipos-recursos/"+strconv.Itoa(id), input, &t, "tipo_recurso"); err != nil {
		return nil, fmt.Errorf("update resource type %d: %w", id, err)
	}
	s.invalidate(ctx, cache.KeyResourceTypes, cache.KeyResources)
	return &t, nil
}

func (s *Service) DeleteType(ctx context.Context, id int) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Delete(ctx, "/tipos-recursos/"+strconv.Itoa(id), &resp); err != nil {
		return nil, fmt.Errorf("delete resource type %d: %w", id, err)
	}
	s.invalidate(ctx, cache.KeyResourceTypes, cache.KeyResources)
	return &resp, nil
}

// postItem and putItem accept the created/updated object bare or wrapped in
// "data" or one of keys.
func (s *Service) postItem(ctx context.Context, path string, body, out any, keys ...string) error {
	var raw json.RawMessage
	if err := s.client.Post(ctx, path, body, &raw); err != nil {
		return err
	}
	return api.DecodeItem(raw, out, append([]string{"data"}, keys...)...)
}

func (s *Service) putItem(ctx context.Context, path string, body, out any, keys ...string) error {
	var raw json.RawMessage
	if err := s.client.Put(ctx, path, body, &raw); err != nil {
		return err
	}
	return api.DecodeItem(raw, out, append(keys, "data")...)
}

func (s *Service) invalidate(ctx context.Context, prefixes ...string) {
	if err := s.cache.Invalidate(ctx, prefixes...); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Strings("prefixes", prefixes), zap.Error(err))
	}
}
