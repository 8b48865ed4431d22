package store

import "time"

// Chat message roles as sent to the completion provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"` // "user", "assistant" or "system"
	Content   string    `json:"content"`
	IsCrisis  bool      `json:"is_crisis"`
	Timestamp time.Time `json:"timestamp"`
}

type MoodEntry struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Score     int       `json:"score"` // 1-5 scale
	Note      string    `json:"note"`
	Tags      string    `json:"tags"` // stored as comma-separated string
	Timestamp time.Time `json:"timestamp"`
}
