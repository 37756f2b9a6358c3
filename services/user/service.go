package user

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"reservas/models"
	"reservas/services/api"

	"go.uber.org/zap"
)

// Service wraps the admin user and role endpoints.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

func NewService(client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger.Named("users")}
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.client.GetList(ctx, "/usuarios", nil, &users, "usuarios", "users"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := s.client.GetItem(ctx, "/usuarios/"+strconv.Itoa(id), &u, "data", "user"); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// Create registers a user. input.Password is required.
func (s *Service) Create(ctx context.Context, input models.UserInput) (*models.User, error) {
	if input.Password == "" {
		return nil, fmt.Errorf("create user: password is required")
	}
	var raw json.RawMessage
	if err := s.client.Post(ctx, "/usuarios", input, &raw); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	var u models.User
	if err := api.DecodeItem(raw, &u, "data", "user"); err != nil {
		return nil, fmt.Errorf("create user: decode: %w", err)
	}
	s.logger.Info("User created", zap.Int("user_id", u.ID), zap.String("email", u.Email))
	return &u, nil
}

func (s *Service) Update(ctx context.Context, id int, input models.UserInput) (*models.User, error) {
	var raw json.RawMessage
	if err := s.client.Put(ctx, "/usuarios/"+strconv.Itoa(id), input, &raw); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	var u models.User
	if err := api.DecodeItem(raw, &u, "user", "data"); err != nil {
		return nil, fmt.Errorf("update user %d: decode: %w", id, err)
	}
	return &u, nil
}

func (s *Service) Delete(ctx context.Context, id int) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Delete(ctx, "/usuarios/"+strconv.Itoa(id), &resp); err != nil {
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}
	s.logger.Info("User deleted", zap.Int("user_id", id))
	return &resp, nil
}

// Roles lists the roles a user can be assigned.
func (s *Service) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.client.GetList(ctx, "/roles", nil, &roles, "roles"); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}
