package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"reservas/models"
	"reservas/utils"

	"go.uber.org/zap"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrResourceUnavailable = errors.New("resource is not available for booking")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
	ErrForbidden           = errors.New("not allowed")
)

// ConflictError is returned when a reservation overlaps active ones.
type ConflictError struct {
	Conflicts []models.ConflictSummary
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("window overlaps %d active reservation(s)", len(e.Conflicts))
}

type userRecord struct {
	user         models.User
	passwordHash []byte
}

// Store is the in-memory dataset behind the stub API. All methods are safe
// for concurrent use and return copies.
type Store struct {
	mu sync.RWMutex

	roles         []models.Role
	users         map[int]*userRecord
	types         map[int]*models.ResourceType
	resources     map[int]*models.Resource
	reservations  map[int]*models.Reservation
	history       []models.HistoryLog
	notifications []models.Notification
	revoked       map[string]time.Time

	lastID map[string]int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int]*userRecord),
		types:        make(map[int]*models.ResourceType),
		resources:    make(map[int]*models.Resource),
		reservations: make(map[int]*models.Reservation),
		revoked:      make(map[string]time.Time),
		lastID:       make(map[string]int),
		now:          time.Now,
	}
}

// InitDB builds a seeded store.
func InitDB() (*Store, error) {
	store := NewStore()
	if err := Seed(store); err != nil {
		return nil, fmt.Errorf("failed to seed stub database: %w", err)
	}
	utils.GetLogger().Info("Stub database seeded",
		zap.Int("users", len(store.users)),
		zap.Int("resources", len(store.resources)))
	return store, nil
}

// nextID must be called with mu held for writing.
func (s *Store) nextID(table string) int {
	s.lastID[table]++
	return s.lastID[table]
}

func (s *Store) timestamp() string {
	return utils.FormatLocal(s.now())
}
