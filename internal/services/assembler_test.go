package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnote/tripnote-backend/internal/models"
)

type fakeStore struct {
	uploads []string
	failOn  string
}

func (s *fakeStore) Upload(_ context.Context, owner, noteID, filename string, _ []byte) (string, error) {
	if filename == s.failOn {
		return "", &StorageError{Filename: filename, Err: errors.New("upstream rejected upload")}
	}
	s.uploads = append(s.uploads, filename)
	return fmt.Sprintf("https://cdn.example.com/%s/%s/%s", owner, noteID, filename), nil
}

type fakeExtractor struct {
	texts  map[string]string // keyed by image payload
	failOn string
}

func (e *fakeExtractor) Extract(_ context.Context, image []byte) (string, error) {
	if string(image) == e.failOn {
		return "", errors.New("recognition service down")
	}
	return e.texts[string(image)], nil
}

func TestSubmitBatchUploadsInOrder(t *testing.T) {
	store := &fakeStore{}
	asm := NewAssembler(store, nil)
	draft := &models.Draft{DraftID: "d1", Owner: "alice"}

	batch, err := asm.SubmitBatch(context.Background(), draft, []Photo{
		{Filename: "one.jpg", Bytes: []byte("1")},
		{Filename: "two.jpg", Bytes: []byte("2")},
		{Filename: "three.jpg", Bytes: []byte("3")},
	}, "old town walk")
	require.NoError(t, err)

	assert.Equal(t, []string{"one.jpg", "two.jpg", "three.jpg"}, store.uploads)
	assert.Equal(t, []string{
		"https://cdn.example.com/alice/d1/one.jpg",
		"https://cdn.example.com/alice/d1/two.jpg",
		"https://cdn.example.com/alice/d1/three.jpg",
	}, batch.ImageURLs)
	assert.Equal(t, "old town walk", batch.Comment)
	assert.NotEmpty(t, batch.BatchID)

	require.Len(t, draft.Batches, 1)
	assert.Equal(t, batch.BatchID, draft.Batches[0].BatchID)
}

func TestSubmitBatchSkipsDuplicateFilenames(t *testing.T) {
	store := &fakeStore{}
	asm := NewAssembler(store, nil)
	draft := &models.Draft{DraftID: "d1", Owner: "alice"}

	batch, err := asm.SubmitBatch(context.Background(), draft, []Photo{
		{Filename: "one.jpg", Bytes: []byte("1")},
		{Filename: "one.jpg", Bytes: []byte("1")},
		{Filename: "two.jpg", Bytes: []byte("2")},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"one.jpg", "two.jpg"}, store.uploads)
	assert.Len(t, batch.ImageURLs, 2)
}

func TestSubmitBatchAbortsOnUploadFailure(t *testing.T) {
	store := &fakeStore{failOn: "two.jpg"}
	asm := NewAssembler(store, nil)
	draft := &models.Draft{DraftID: "d1", Owner: "alice"}

	_, err := asm.SubmitBatch(context.Background(), draft, []Photo{
		{Filename: "one.jpg", Bytes: []byte("1")},
		{Filename: "two.jpg", Bytes: []byte("2")},
		{Filename: "three.jpg", Bytes: []byte("3")},
	}, "")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "two.jpg", storageErr.Filename)
	// Nothing past the failure was uploaded and the draft gained no batch.
	assert.Equal(t, []string{"one.jpg"}, store.uploads)
	assert.Empty(t, draft.Batches)
}

func TestSubmitBatchExtractionDegrades(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{
		texts:  map[string]string{"1": "museum ticket stub"},
		failOn: "2",
	}
	asm := NewAssembler(store, extractor)
	draft := &models.Draft{DraftID: "d1", Owner: "alice"}

	batch, err := asm.SubmitBatch(context.Background(), draft, []Photo{
		{Filename: "one.jpg", Bytes: []byte("1")},
		{Filename: "two.jpg", Bytes: []byte("2")},
		{Filename: "three.jpg", Bytes: []byte("3")},
	}, "")
	require.NoError(t, err)

	// Extracted text is keyed by the stored URL; a failed or empty extraction
	// simply has no entry.
	assert.Equal(t, map[string]string{
		"https://cdn.example.com/alice/d1/one.jpg": "museum ticket stub",
	}, batch.Extracted)
	assert.Len(t, batch.ImageURLs, 3)
}

func TestSubmitBatchRejectsEmptySubmission(t *testing.T) {
	asm := NewAssembler(&fakeStore{}, nil)
	draft := &models.Draft{DraftID: "d1", Owner: "alice"}

	_, err := asm.SubmitBatch(context.Background(), draft, nil, "no photos here")
	assert.Error(t, err)
	assert.Empty(t, draft.Batches)
}
