package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journal is a persisted travel journal: the photos, the user's raw notes and
// the AI-composed narrative. Owner is the username that created it and never
// changes after creation.
type Journal struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	NoteID        string             `bson:"note_id" json:"note_id"`
	Owner         string             `bson:"owner" json:"owner"`
	Title         string             `bson:"title" json:"title"`
	Location      string             `bson:"location" json:"location"`
	TravelDate    string             `bson:"travel_date" json:"travel_date"`
	Images        []string           `bson:"images" json:"images"`
	ExtractedText map[string]string  `bson:"extracted_text,omitempty" json:"extracted_text,omitempty"`
	UserNotes     string             `bson:"user_notes" json:"user_notes"`
	Narrative     string             `bson:"narrative" json:"narrative"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// JournalSummary is the list-view projection (no narrative body).
type JournalSummary struct {
	NoteID     string    `bson:"note_id" json:"note_id"`
	Title      string    `bson:"title" json:"title"`
	Location   string    `bson:"location" json:"location"`
	TravelDate string    `bson:"travel_date" json:"travel_date"`
	PhotoCount int       `bson:"-" json:"photo_count"`
	Images     []string  `bson:"images" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
