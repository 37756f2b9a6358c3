package models

// Notification is an in-app notice for the current user.
type Notification struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Kind      string `json:"tipo"`
	Title     string `json:"titulo"`
	Message   string `json:"mensaje"`
	Read      Flag   `json:"leida"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
