package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnote/tripnote-backend/internal/database"
	"github.com/tripnote/tripnote-backend/internal/models"
)

const journalCollection = "journals"

// Every operation here filters by owner as well as note_id. A journal that
// exists but belongs to someone else is reported as ErrNotFound, same as one
// that never existed. Transport failures stay distinct wrapped errors so
// callers can tell an outage from an absent record.

// EnsureJournalIndexes creates the owner/note_id indexes used by every query.
func EnsureJournalIndexes(ctx context.Context) error {
	coll := database.DB.Collection(journalCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "note_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}

// CreateJournal persists a newly composed journal.
func CreateJournal(ctx context.Context, journal *models.Journal) error {
	_, err := database.DB.Collection(journalCollection).InsertOne(ctx, journal)
	if err != nil {
		return fmt.Errorf("failed to insert journal: %w", err)
	}
	return nil
}

// GetJournal fetches one journal, owner-scoped.
func GetJournal(ctx context.Context, owner, noteID string) (*models.Journal, error) {
	var journal models.Journal
	err := database.DB.Collection(journalCollection).
		FindOne(ctx, bson.M{"note_id": noteID, "owner": owner}).
		Decode(&journal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journal: %w", err)
	}
	return &journal, nil
}

// ListJournals returns the owner's journals, newest first.
func ListJournals(ctx context.Context, owner string, limit int) ([]models.JournalSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{
			"note_id":     1,
			"title":       1,
			"location":    1,
			"travel_date": 1,
			"images":      1,
			"created_at":  1,
		})

	cursor, err := database.DB.Collection(journalCollection).
		Find(ctx, bson.M{"owner": owner}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.JournalSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode journals: %w", err)
	}

	for i := range summaries {
		summaries[i].PhotoCount = len(summaries[i].Images)
	}
	return summaries, nil
}

// JournalUpdate carries the fields an update may touch. Nil fields are left
// untouched.
type JournalUpdate struct {
	Title      *string
	Location   *string
	TravelDate *string
	Images     *[]string
	UserNotes  *string
	Narrative  *string
}

// UpdateJournal applies a partial update, owner-scoped.
func UpdateJournal(ctx context.Context, owner, noteID string, update JournalUpdate) error {
	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.TravelDate != nil {
		set["travel_date"] = *update.TravelDate
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.UserNotes != nil {
		set["user_notes"] = *update.UserNotes
	}
	if update.Narrative != nil {
		set["narrative"] = *update.Narrative
	}

	result, err := database.DB.Collection(journalCollection).
		UpdateOne(ctx, bson.M{"note_id": noteID, "owner": owner}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update journal: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJournal removes a journal, owner-scoped, returning the deleted record
// so the caller can clean up its stored photos.
func DeleteJournal(ctx context.Context, owner, noteID string) (*models.Journal, error) {
	var journal models.Journal
	err := database.DB.Collection(journalCollection).
		FindOneAndDelete(ctx, bson.M{"note_id": noteID, "owner": owner}).
		Decode(&journal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete journal: %w", err)
	}
	return &journal, nil
}
