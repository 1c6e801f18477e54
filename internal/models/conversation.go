package models

import (
	"time"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is a single message in a conversation. History is an append-only
// ordered sequence of turns; it lives in memory only and is gone after a
// restart.
type Turn struct {
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role Role, message string) Turn {
	return Turn{
		Role:      role,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// CalendarEvent is the slice of a provider event the agent cares about.
// Description and Link are optional and may be empty.
type CalendarEvent struct {
	Summary     string `json:"summary"`
	Start       string `json:"start"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}
