package models

import "time"

// Session represents an authenticated session issued by the backend.
// Guest sessions are device-local and never get a Session row.
type Session struct {
	Token     string    `json:"token" db:"token"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
