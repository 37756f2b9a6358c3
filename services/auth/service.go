package auth

import (
	"context"
	"fmt"
	"time"

	"reservas/models"
	"reservas/services/api"

	"go.uber.org/zap"
)

// Service wraps the account endpoints of the API and keeps Session current.
type Service struct {
	client  *api.Client
	session *Session
	logger  *zap.Logger
}

func NewService(client *api.Client, session *Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, session: session, logger: logger.Named("auth")}
}

// Login exchanges credentials for a token and stores it in the session.
func (s *Service) Login(ctx context.Context, creds models.LoginCredentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := s.client.Post(ctx, "/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: response carried no access token")
	}

	s.session.Set(resp.AccessToken, resp.User, time.Duration(resp.ExpiresIn)*time.Second)

	fields := []zap.Field{zap.String("email", creds.Email)}
	if resp.User != nil {
		fields = append(fields, zap.Int("user_id", resp.User.ID), zap.Bool("admin", resp.User.IsAdmin()))
	}
	s.logger.Info("Logged in", fields...)
	return &resp, nil
}

// Logout revokes the token server-side and always clears the local session.
func (s *Service) Logout(ctx context.Context) error {
	defer s.session.Invalidate(ctx)
	if !s.session.Active() {
		return nil
	}
	if err := s.client.Post(ctx, "/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me fetches the current user and refreshes the session copy.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	if !s.session.Active() {
		return nil, ErrNoSession
	}
	var user models.User
	if err := s.client.GetItem(ctx, "/me", &user, "data", "user"); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	s.session.SetUser(&user)
	return &user, nil
}

// ChangePasswordFirstLogin sets the password of an account flagged with
// must_change_password.
func (s *Service) ChangePasswordFirstLogin(ctx context.Context, userID int, password string) (*models.MessageResponse, error) {
	body := models.ChangePasswordInput{
		UserID:               userID,
		NewPassword:          password,
		PasswordConfirmation: password,
	}
	var resp models.MessageResponse
	if err := s.client.Post(ctx, "/auth/change-password-first-login", body, &resp); err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	return &resp, nil
}

// UpdateProfile changes the name and email of the current user.
func (s *Service) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.User, error) {
	var resp struct {
		Message string       `json:"message"`
		User    *models.User `json:"user"`
	}
	if err := s.client.Put(ctx, "/perfil", input, &resp); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if resp.User != nil {
		s.session.SetUser(resp.User)
	}
	return resp.User, nil
}
