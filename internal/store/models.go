package store

import "time"

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one entry of the chat transcript. Messages are append-only.
type Message struct {
	Seq       int64     `json:"-"`    // Insertion order
	ID        string    `json:"id"`   // UUID
	Role      string    `json:"role"` // "user" or "model"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
