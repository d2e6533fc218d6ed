package utils

import (
	"context"
	"time"
)

type contextKey string

const (
	ContextUserIDKey contextKey = "userID"
	ContextTokenKey  contextKey = "token"
)

// SessionData is what the session middleware needs to know about a token.
type SessionData struct {
	SessionID string
	UserID    int
	ExpiresAt time.Time
}

func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(ContextUserIDKey).(int)
	return userID, ok
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ContextTokenKey).(string)
	return token, ok && token != ""
}
