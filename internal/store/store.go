// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"market-analyst/internal/models"
)

// SessionInfo summarizes one stored conversation session.
type SessionInfo struct {
	ID        string
	StartedAt time.Time
	UpdatedAt time.Time
	Turns     int
}

// ConversationStore defines the interface for conversation persistence.
type ConversationStore interface {
	// CreateSession registers a new session id. Creating an existing
	// id is a no-op.
	CreateSession(ctx context.Context, sessionID string) error

	// AppendTurns appends turns to a session in order.
	AppendTurns(ctx context.Context, sessionID string, turns []models.Turn) error

	// GetTurns returns a session's turns in insertion order.
	GetTurns(ctx context.Context, sessionID string) ([]models.Turn, error)

	// ListSessions returns all stored sessions, most recent first.
	ListSessions(ctx context.Context) ([]SessionInfo, error)

	// DeleteSession removes a session and its turns.
	DeleteSession(ctx context.Context, sessionID string) error

	// Lifecycle
	Close() error
}
