package database

import (
	"sort"
	"strings"
	"time"

	"reservas/models"

	"golang.org/x/crypto/bcrypt"
)

// Authenticate returns the user owning email when password matches.
func (s *Store) Authenticate(email, password string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.userByEmailLocked(email)
	if rec == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.withRoleLocked(rec.user), nil
}

func (s *Store) User(id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.withRoleLocked(rec.user), nil
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, rec := range s.users {
		users = append(users, *s.withRoleLocked(rec.user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *Store) Roles() []models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Role(nil), s.roles...)
}

// CreateUser stores a user with a bcrypt hash of password.
func (s *Store) CreateUser(input models.UserInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	status := 1
	if input.Status != nil {
		status = *input.Status
	}
	roleID := input.RoleID
	if roleID == 0 {
		roleID = StudentRoleID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.insertUserLocked(models.User{
		Name:               input.Name,
		Email:              input.Email,
		RoleID:             roleID,
		Status:             status,
		MustChangePassword: true,
	}, hash)
	if err != nil {
		return nil, err
	}
	return s.withRoleLocked(s.users[id].user), nil
}

// ChangePassword replaces the password of an account still flagged with
// must_change_password and clears the flag.
func (s *Store) ChangePassword(userID int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	if !rec.user.MustChangePassword {
		return ErrForbidden
	}
	rec.passwordHash = hash
	rec.user.MustChangePassword = false
	rec.user.UpdatedAt = s.timestamp()
	return nil
}

// RevokeToken blacklists a token hash until its expiry.
func (s *Store) RevokeToken(hash string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for h, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, h)
		}
	}
	s.revoked[hash] = expiresAt
}

func (s *Store) IsRevoked(hash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[hash]
	return ok
}

func (s *Store) insertUserLocked(u models.User, hash []byte) (int, error) {
	if s.userByEmailLocked(u.Email) != nil {
		return 0, ErrEmailTaken
	}
	u.ID = s.nextID("users")
	u.CreatedAt = s.timestamp()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = &userRecord{user: u, passwordHash: hash}
	return u.ID, nil
}

func (s *Store) userByEmailLocked(email string) *userRecord {
	for _, rec := range s.users {
		if strings.EqualFold(rec.user.Email, email) {
			return rec
		}
	}
	return nil
}

func (s *Store) withRoleLocked(u models.User) *models.User {
	for _, r := range s.roles {
		if r.ID == u.RoleID {
			role := r
			u.Role = &role
			break
		}
	}
	return &u
}
