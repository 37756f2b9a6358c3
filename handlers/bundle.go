package handlers

import (
	"time"

	"reservas/database"
)

// HandlerBundle serves the stub reservation API from an in-memory store.
type HandlerBundle struct {
	Store    *database.Store
	TokenTTL time.Duration
}

func NewHandlerBundle(store *database.Store, tokenTTL time.Duration) *HandlerBundle {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &HandlerBundle{Store: store, TokenTTL: tokenTTL}
}
