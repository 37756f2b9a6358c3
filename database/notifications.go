package database

import "reservas/models"

// Notifications lists the notifications of userID, newest first.
func (s *Store) Notifications(userID int) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			list = append(list, s.notifications[i])
		}
	}
	return list
}

func (s *Store) MarkNotificationRead(userID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		n := &s.notifications[i]
		if n.ID != id {
			continue
		}
		if n.UserID != userID {
			return ErrForbidden
		}
		n.Read = true
		n.UpdatedAt = s.timestamp()
		return nil
	}
	return ErrNotFound
}

// MarkAllNotificationsRead returns how many notifications changed.
func (s *Store) MarkAllNotificationsRead(userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.UpdatedAt = s.timestamp()
			changed++
		}
	}
	return changed
}

func (s *Store) notifyLocked(userID int, kind, title, message string) {
	s.notifications = append(s.notifications, models.Notification{
		ID:        s.nextID("notificaciones"),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: s.timestamp(),
	})
}
