package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnote/tripnote-backend/internal/models"
)

func TestBuildNarrativePromptOrdering(t *testing.T) {
	batches := []models.Batch{
		{ImageURLs: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, Comment: "first day"},
		{ImageURLs: []string{"https://cdn.example.com/c.jpg"}, Comment: "second day"},
	}

	prompt := BuildNarrativePrompt("Kyoto", "2026-04-02", batches, nil)

	// Photos are numbered across batches in submission order.
	assert.Contains(t, prompt, "Photo 1: https://cdn.example.com/a.jpg")
	assert.Contains(t, prompt, "Photo 2: https://cdn.example.com/b.jpg")
	assert.Contains(t, prompt, "Photo 3: https://cdn.example.com/c.jpg")
	assert.Less(t,
		strings.Index(prompt, "Photo 1:"),
		strings.Index(prompt, "Photo 3:"))

	assert.Contains(t, prompt, `- Batch 1: 2 photos, comment: "first day"`)
	assert.Contains(t, prompt, `- Batch 2: 1 photos, comment: "second day"`)
	assert.Contains(t, prompt, "Kyoto")
	assert.Contains(t, prompt, "2026-04-02")
}

func TestBuildNarrativePromptDeterministic(t *testing.T) {
	batches := []models.Batch{
		{ImageURLs: []string{"u1", "u2", "u3", "u4"}, Comment: "hike"},
	}
	extracted := map[string]string{
		"photo_1": "trailhead sign",
		"photo_3": "summit marker 2104m",
		"photo_4": "hut guestbook",
	}

	first := BuildNarrativePrompt("Alps", "2026-07-11", batches, extracted)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, BuildNarrativePrompt("Alps", "2026-07-11", batches, extracted))
	}

	// Extracted entries keep photo order regardless of map iteration order.
	assert.Less(t,
		strings.Index(first, "- photo_1: trailhead sign"),
		strings.Index(first, "- photo_3: summit marker 2104m"))
	assert.Less(t,
		strings.Index(first, "- photo_3: summit marker 2104m"),
		strings.Index(first, "- photo_4: hut guestbook"))
}

func TestBuildNarrativePromptPlaceholders(t *testing.T) {
	prompt := BuildNarrativePrompt("Lisbon", "2026-03-09", []models.Batch{{Comment: "   "}}, nil)

	assert.Contains(t, prompt, "## Photos (reference these in the journal)\nnone")
	assert.Contains(t, prompt, `comment: "no comment"`)
	assert.Contains(t, prompt, "## Text recognized in photos (if any)\nnone")
}

func TestBuildNarrativePromptSkipsBlankExtractedText(t *testing.T) {
	batches := []models.Batch{{ImageURLs: []string{"u1", "u2"}}}
	prompt := BuildNarrativePrompt("Oslo", "2026-01-20", batches, map[string]string{
		"photo_1": "  ",
		"photo_2": "harbor timetable",
	})

	assert.NotContains(t, prompt, "- photo_1:")
	assert.Contains(t, prompt, "- photo_2: harbor timetable")
}

func TestBuildPhotoDescPrompt(t *testing.T) {
	prompt := BuildPhotoDescPrompt("Xi'an", "the old city wall at dusk", "永寧門")
	assert.Contains(t, prompt, "Xi'an")
	assert.Contains(t, prompt, "the old city wall at dusk")
	assert.Contains(t, prompt, "永寧門")

	empty := BuildPhotoDescPrompt("Xi'an", "", "  ")
	assert.Contains(t, empty, "no notes")
	assert.Contains(t, empty, "none")
}

func TestBuildTitlePrompt(t *testing.T) {
	prompt := BuildTitlePrompt("Santorini", "2026-06-01", 12)
	require.Contains(t, prompt, "- Location: Santorini")
	require.Contains(t, prompt, "- Date: 2026-06-01")
	require.Contains(t, prompt, fmt.Sprintf("- Photos: %d", 12))
}
