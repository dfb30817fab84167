package services

import (
	"fmt"
	"strings"

	"github.com/tripnote/tripnote-backend/internal/models"
)

// Prompt builders. All of them are pure: the same input always produces the
// same string, which keeps generation reproducible enough to debug from logs.
//
// BuildNarrativePrompt enumerates photos, comments and extracted text in batch
// submission order, then photo order within each batch. The model correlates
// "batch 2's third photo" purely through this ordering.

const photoDescTemplate = `You are a professional travel writer. Using the user's note and any text
recognized in the photo, write one evocative descriptive paragraph.

## Location
%s

## User note
%s

## Text recognized in the photo (if any)
%s

Requirements:
1. Weave the note and recognized text into a single flowing description
2. If the recognized text is cultural (an inscription, a plaque, a couplet), explain it briefly within the description
3. Around 80-150 words, first-person, as if you were there
4. Return only the description, no title or commentary`

const titleTemplate = `Based on the following trip information, write an evocative title for a travel journal:

- Location: %s
- Date: %s
- Photos: %d

Requirements:
1. At most 10 words
2. Poetic and visual
3. Reflect the character of the place
4. Return only the title, nothing else`

const narrativeTemplate = `You are a professional travel writer. Using the photo groups and comments the
user provided, write one complete travel journal.

## Trip
- Location: %s
- Date: %s

## Photos (reference these in the journal)
%s

## User material (by submission batch)
%s

## Text recognized in photos (if any)
%s

Requirements:
1. Write a complete journal with a beginning, development and close, organized along the trip's timeline
2. IMPORTANT: when referencing a photo you must copy its full URL from the photo list above, verbatim
3. Photo reference syntax: ` + "`![description](full URL)`" + `
   - Correct: ` + "`![Winter lake](https://res.example.com/trip_note/alice/n1/20260115/photo.jpg)`" + `
   - Wrong: ` + "`![photo](photo 1 URL)`" + ` or ` + "`![photo](photo URL)`" + `
4. Treat the user's comments as ground truth: do not invent scenes, events or details beyond what the comments state
5. Explain any recognized cultural text (inscriptions, couplets) where it appears
6. First-person, flowing prose, roughly 600-1000 words

Output Markdown with the title as a # heading on the first line.`

// BuildPhotoDescPrompt builds the single-photo description prompt. Empty note
// and extracted text map to explicit placeholders so the template stays
// well-formed for the model.
func BuildPhotoDescPrompt(location, note, extractedText string) string {
	if strings.TrimSpace(note) == "" {
		note = "no notes"
	}
	if strings.TrimSpace(extractedText) == "" {
		extractedText = "none"
	}
	return fmt.Sprintf(photoDescTemplate, location, note, extractedText)
}

// BuildTitlePrompt builds the journal title prompt.
func BuildTitlePrompt(location, travelDate string, photoCount int) string {
	return fmt.Sprintf(titleTemplate, location, travelDate, photoCount)
}

// BuildNarrativePrompt builds the full-journal prompt from the accumulated
// batches. extractedText is keyed by flattened photo key ("photo_1",
// "photo_2", ...) as produced by the composer.
func BuildNarrativePrompt(location, travelDate string, batches []models.Batch, extractedText map[string]string) string {
	var photoLines []string
	photoIndex := 1
	for _, batch := range batches {
		for _, url := range batch.ImageURLs {
			photoLines = append(photoLines, fmt.Sprintf("Photo %d: %s", photoIndex, url))
			photoIndex++
		}
	}
	photoList := "none"
	if len(photoLines) > 0 {
		photoList = strings.Join(photoLines, "\n")
	}

	var batchLines []string
	for i, batch := range batches {
		comment := batch.Comment
		if strings.TrimSpace(comment) == "" {
			comment = "no comment"
		}
		batchLines = append(batchLines, fmt.Sprintf("- Batch %d: %d photos, comment: \"%s\"", i+1, len(batch.ImageURLs), comment))
	}
	batchInfo := "none"
	if len(batchLines) > 0 {
		batchInfo = strings.Join(batchLines, "\n")
	}

	// Walk keys in flattened photo order rather than ranging over the map, so
	// the prompt is byte-identical across runs.
	var extractedLines []string
	for i := 1; i < photoIndex; i++ {
		key := fmt.Sprintf("photo_%d", i)
		if text := strings.TrimSpace(extractedText[key]); text != "" {
			extractedLines = append(extractedLines, fmt.Sprintf("- %s: %s", key, text))
		}
	}
	extractedInfo := "none"
	if len(extractedLines) > 0 {
		extractedInfo = strings.Join(extractedLines, "\n")
	}

	return fmt.Sprintf(narrativeTemplate, location, travelDate, photoList, batchInfo, extractedInfo)
}
