package database

import (
	"sort"

	"reservas/models"
)

// Resources lists resources matching filters, ordered by id.
func (s *Store) Resources(filters models.ResourceFilters) []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if filters.TypeID > 0 && r.TypeID != filters.TypeID {
			continue
		}
		if filters.Available != nil && bool(r.GenerallyAvailable) != *filters.Available {
			continue
		}
		list = append(list, *s.withTypeLocked(*r))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) Resource(id int) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.withTypeLocked(*r), nil
}

func (s *Store) ResourceTypes() []models.ResourceType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.ResourceType, 0, len(s.types))
	for _, t := range s.types {
		list = append(list, *t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) ResourceType(id int) (*models.ResourceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

// Availability reports whether [start, end) is free on the resource.
func (s *Store) Availability(resourceID int, start, end string) (*models.Availability, error) {
	window, err := parseWindow(resourceID, start, end)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[resourceID]
	if !ok {
		return nil, ErrNotFound
	}
	conflicts := s.conflictsLocked(window, 0)
	return &models.Availability{
		Available: bool(r.GenerallyAvailable) && len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *Store) withTypeLocked(r models.Resource) *models.Resource {
	if t, ok := s.types[r.TypeID]; ok {
		copied := *t
		r.Type = &copied
	}
	return &r
}
