package store

import (
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated session state held by the in-memory session
// store. One session per signed-in client.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"` // "password" | "google"
	CreatedAt time.Time `json:"created_at"`
}
