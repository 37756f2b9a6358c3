package database

import (
	"fmt"

	"reservas/models"

	"golang.org/x/crypto/bcrypt"
)

// Seed accounts of the stub API.
const (
	SeedAdminEmail      = "admin@reservas.test"
	SeedAdminPassword   = "admin123"
	SeedStudentEmail    = "estudiante@reservas.test"
	SeedStudentPassword = "estudiante123"
)

// StudentRoleID is the role given to regular users.
const StudentRoleID = 2

// Seed loads roles, two accounts, two resource types and three resources.
// The third resource is flagged as not generally available.
func Seed(s *Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles = []models.Role{
		{ID: models.AdminRoleID, Name: "admin", Description: "Administrador"},
		{ID: StudentRoleID, Name: "estudiante", Description: "Estudiante"},
	}

	accounts := []struct {
		name, email, password string
		roleID                int
	}{
		{"Administrador", SeedAdminEmail, SeedAdminPassword, models.AdminRoleID},
		{"Ana Estudiante", SeedStudentEmail, SeedStudentPassword, StudentRoleID},
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", a.email, err)
		}
		if _, err := s.insertUserLocked(models.User{Name: a.name, Email: a.email, RoleID: a.roleID, Status: 1}, hash); err != nil {
			return err
		}
	}

	now := s.timestamp()
	for _, t := range []models.ResourceType{
		{Name: "Laboratorio", Description: "Laboratorios de cómputo", Status: 1},
		{Name: "Aula", Description: "Aulas y salas", Status: 1},
	} {
		t.ID = s.nextID("tipos_recursos")
		t.CreatedAt, t.UpdatedAt = now, now
		stored := t
		s.types[t.ID] = &stored
	}

	floor := func(n int) *int { return &n }
	for _, r := range []models.Resource{
		{TypeID: 1, Name: "Laboratorio de Redes", Location: "Edificio A", Capacity: 30, Floor: floor(1), GenerallyAvailable: true, Status: 1},
		{TypeID: 2, Name: "Aula 101", Location: "Edificio B", Capacity: 40, Floor: floor(0), GenerallyAvailable: true, Status: 1},
		{TypeID: 2, Name: "Auditorio", Location: "Edificio C", Capacity: 200, Floor: floor(0), GenerallyAvailable: false, Status: 1},
	} {
		r.ID = s.nextID("recursos")
		stored := r
		s.resources[r.ID] = &stored
	}
	return nil
}
