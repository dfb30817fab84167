package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tripnote/tripnote-backend/internal/database"
	"github.com/tripnote/tripnote-backend/internal/models"
)

const (
	// DraftTTL bounds how long an unfinished journal session survives.
	DraftTTL = 24 * time.Hour
	// DraftKeyPrefix is the Redis key prefix for journal drafts.
	DraftKeyPrefix = "draft:"
)

func draftKey(owner, draftID string) string {
	return DraftKeyPrefix + owner + ":" + draftID
}

// CreateDraft starts a new journal session for the owner and returns the
// aggregate the caller will thread through batch submissions.
func CreateDraft(ctx context.Context, owner string) (*models.Draft, error) {
	draft := &models.Draft{
		DraftID:   uuid.NewString(),
		Owner:     owner,
		Batches:   []models.Batch{},
		CreatedAt: time.Now(),
	}
	if err := SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft loads a draft by handle. Drafts are keyed by owner, so another
// user's draft ID simply does not resolve.
func GetDraft(ctx context.Context, owner, draftID string) (*models.Draft, error) {
	data, err := database.RedisClient.Get(ctx, draftKey(owner, draftID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft models.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft writes the draft back, refreshing its TTL.
func SaveDraft(ctx context.Context, draft *models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, draftKey(draft.Owner, draft.DraftID), data, DraftTTL).Err()
}

// DeleteDraft discards a session (on compose or explicit cancel).
func DeleteDraft(ctx context.Context, owner, draftID string) error {
	return database.RedisClient.Del(ctx, draftKey(owner, draftID)).Err()
}

// RemoveBatch drops one batch from the draft. Returns ErrNotFound when the
// batch is not part of the draft.
func RemoveBatch(ctx context.Context, draft *models.Draft, batchID string) error {
	for i, b := range draft.Batches {
		if b.BatchID == batchID {
			draft.Batches = append(draft.Batches[:i], draft.Batches[i+1:]...)
			return SaveDraft(ctx, draft)
		}
	}
	return ErrNotFound
}
