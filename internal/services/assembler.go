package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tripnote/tripnote-backend/internal/models"
)

// ObjectStore is the slice of the photo store the assembler needs.
type ObjectStore interface {
	Upload(ctx context.Context, owner, noteID, filename string, data []byte) (string, error)
}

// TextExtractor pulls text out of an image. An empty string means "no text",
// which is a normal result.
type TextExtractor interface {
	Extract(ctx context.Context, image []byte) (string, error)
}

// Photo is one photo in a batch submission.
type Photo struct {
	Filename string
	Bytes    []byte
}

// Assembler turns a photo submission into a Batch: uploads every photo in
// order, runs best-effort text extraction, and appends the batch to the
// caller's draft. The draft is the session aggregate; the caller persists it.
type Assembler struct {
	store     ObjectStore
	extractor TextExtractor
}

func NewAssembler(store ObjectStore, extractor TextExtractor) *Assembler {
	return &Assembler{store: store, extractor: extractor}
}

// SubmitBatch uploads the photos and appends the resulting batch to the draft.
//
// Duplicate filenames within one submission are skipped silently; repeated UI
// submit events are the only source of those, not distinct photos. Any upload
// failure aborts the whole batch. Extraction failures degrade to no text and
// never block submission.
func (a *Assembler) SubmitBatch(ctx context.Context, draft *models.Draft, photos []Photo, comment string) (models.Batch, error) {
	if len(photos) == 0 {
		return models.Batch{}, errors.New("batch needs at least one photo")
	}

	seen := make(map[string]bool, len(photos))
	batch := models.Batch{
		BatchID:   uuid.NewString(),
		Comment:   comment,
		Extracted: map[string]string{},
		CreatedAt: time.Now(),
	}

	for _, photo := range photos {
		if seen[photo.Filename] {
			continue
		}
		seen[photo.Filename] = true

		url, err := a.store.Upload(ctx, draft.Owner, draft.DraftID, photo.Filename, photo.Bytes)
		if err != nil {
			var storageErr *StorageError
			if errors.As(err, &storageErr) {
				return models.Batch{}, err
			}
			return models.Batch{}, &StorageError{Filename: photo.Filename, Err: err}
		}
		batch.ImageURLs = append(batch.ImageURLs, url)

		if a.extractor != nil {
			text, err := a.extractor.Extract(ctx, photo.Bytes)
			if err != nil {
				log.Printf("text extraction failed for %s, continuing without: %v", photo.Filename, err)
				text = ""
			}
			if text != "" {
				batch.Extracted[url] = text
			}
		}
	}

	draft.Batches = append(draft.Batches, batch)
	return batch, nil
}
