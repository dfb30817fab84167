package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/tripnote/tripnote-backend/internal/database"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// CreateSession creates a new session for a user and stores it in Redis.
// An existing session for the same user is invalidated first, so the 7-day
// timer always resets from the latest login.
func CreateSession(ctx context.Context, username string) (string, error) {
	InvalidateUserSessions(ctx, username)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + username

	if err := database.RedisClient.Set(ctx, sessionKey, username, SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// ValidateSession checks if a session token is valid and returns the username.
func ValidateSession(ctx context.Context, sessionToken string) (string, bool) {
	if sessionToken == "" {
		return "", false
	}

	username, err := database.RedisClient.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil || username == "" {
		return "", false
	}

	return username, true
}

// InvalidateSession removes a session from Redis
func InvalidateSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	username, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err == nil && username != "" {
		database.RedisClient.Del(ctx, UserSessionKeyPrefix+username)
	}

	return database.RedisClient.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates the active session for a user (used on
// login and password change).
func InvalidateUserSessions(ctx context.Context, username string) error {
	userSessionKey := UserSessionKeyPrefix + username

	sessionToken, err := database.RedisClient.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return database.RedisClient.Del(ctx, userSessionKey).Err()
}
