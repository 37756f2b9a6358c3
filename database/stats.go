package database

import (
	"sort"

	"reservas/models"
)

const topUsersLimit = 5

// Stats aggregates reservations starting between from and to (YYYY-MM-DD,
// inclusive, either may be empty).
func (s *Store) Stats(from, to string) models.SystemStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.SystemStats
	stats.Period.From = from
	stats.Period.To = to

	perUser := map[int]int{}
	perResource := map[int]int{}
	perType := map[string]int{}

	for _, r := range s.reservations {
		day := r.Start
		if len(day) >= 10 {
			day = day[:10]
		}
		if (from != "" && day < from) || (to != "" && day > to) {
			continue
		}

		stats.Totals.Total++
		switch r.Status {
		case models.ReservationActive:
			stats.Totals.Active++
		case models.ReservationCancelled:
			stats.Totals.Cancelled++
		}
		perUser[r.UserID]++
		perResource[r.ResourceID]++
		if res, ok := s.resources[r.ResourceID]; ok {
			if t, ok := s.types[res.TypeID]; ok {
				perType[t.Name]++
			}
		}
	}

	if len(perUser) > 0 {
		stats.Averages.PerUser = float64(stats.Totals.Total) / float64(len(perUser))
	}
	if len(perResource) > 0 {
		stats.Averages.PerResource = float64(stats.Totals.Total) / float64(len(perResource))
	}

	stats.TopUsers = make([]models.UserCount, 0, len(perUser))
	for userID, n := range perUser {
		name := ""
		if rec, ok := s.users[userID]; ok {
			name = rec.user.Name
		}
		stats.TopUsers = append(stats.TopUsers, models.UserCount{User: name, TotalReservations: n})
	}
	sort.Slice(stats.TopUsers, func(i, j int) bool {
		if stats.TopUsers[i].TotalReservations == stats.TopUsers[j].TotalReservations {
			return stats.TopUsers[i].User < stats.TopUsers[j].User
		}
		return stats.TopUsers[i].TotalReservations > stats.TopUsers[j].TotalReservations
	})
	if len(stats.TopUsers) > topUsersLimit {
		stats.TopUsers = stats.TopUsers[:topUsersLimit]
	}

	stats.ByResourceType = make([]models.TypeCount, 0, len(perType))
	for name, n := range perType {
		stats.ByResourceType = append(stats.ByResourceType, models.TypeCount{Type: name, TotalReservations: n})
	}
	sort.Slice(stats.ByResourceType, func(i, j int) bool {
		return stats.ByResourceType[i].Type < stats.ByResourceType[j].Type
	})
	return stats
}
