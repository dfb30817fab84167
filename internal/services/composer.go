package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tripnote/tripnote-backend/internal/models"
)

// Generator is the slice of the generation client the composer needs.
type Generator interface {
	ComposeNarrative(ctx context.Context, prompt string) (string, error)
	GenerateTitle(ctx context.Context, prompt string) (string, error)
}

// ComposeOptions control one composition run.
type ComposeOptions struct {
	// ExtractText runs text extraction on photos that were submitted without
	// it. Failures are logged and skipped, never fatal.
	ExtractText bool
	// AutoTitle takes the title from the narrative's first heading, falling
	// back to a dedicated title-generation call.
	AutoTitle bool
	// Progress, when set, is called after each photo is prepared.
	Progress func(done, total int)
}

// ComposeResult is the value object handed to the journal repository. The
// composer itself never persists.
type ComposeResult struct {
	Title         string
	Narrative     string
	ImageURLs     []string
	ExtractedText map[string]string
	UserNotes     string
}

// Composer assembles the accumulated batches into a titled Markdown journal
// via the generation client.
type Composer struct {
	gen       Generator
	extractor TextExtractor
	fetch     func(ctx context.Context, url string) ([]byte, error)
}

func NewComposer(gen Generator, extractor TextExtractor) *Composer {
	return &Composer{
		gen:       gen,
		extractor: extractor,
		fetch:     fetchImage,
	}
}

func fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Compose flattens the batches (submission order, then photo order), runs
// optional late extraction, generates the narrative and resolves the title.
func (c *Composer) Compose(ctx context.Context, location, travelDate string, batches []models.Batch, opts ComposeOptions) (ComposeResult, error) {
	if len(batches) == 0 {
		return ComposeResult{}, errors.New("nothing to compose: no batches")
	}

	total := 0
	for _, b := range batches {
		total += len(b.ImageURLs)
	}

	var imageURLs []string
	extractedText := map[string]string{}

	photoIndex := 0
	for _, batch := range batches {
		for _, url := range batch.ImageURLs {
			photoIndex++
			imageURLs = append(imageURLs, url)

			text := batch.Extracted[url]
			if text == "" && opts.ExtractText && c.extractor != nil {
				text = c.lateExtract(ctx, url)
			}
			if text != "" {
				extractedText[fmt.Sprintf("photo_%d", photoIndex)] = text
			}

			if opts.Progress != nil {
				opts.Progress(photoIndex, total)
			}
		}
	}

	var noteLines []string
	for i, batch := range batches {
		if strings.TrimSpace(batch.Comment) != "" {
			noteLines = append(noteLines, fmt.Sprintf("Batch %d: %s", i+1, batch.Comment))
		}
	}
	userNotes := strings.Join(noteLines, "\n")

	prompt := BuildNarrativePrompt(location, travelDate, batches, extractedText)
	narrative, err := c.gen.ComposeNarrative(ctx, prompt)
	if err != nil {
		return ComposeResult{}, err
	}

	title, err := c.resolveTitle(ctx, narrative, location, travelDate, total, opts.AutoTitle)
	if err != nil {
		return ComposeResult{}, err
	}

	return ComposeResult{
		Title:         title,
		Narrative:     narrative,
		ImageURLs:     imageURLs,
		ExtractedText: extractedText,
		UserNotes:     userNotes,
	}, nil
}

// lateExtract covers photos whose text extraction was skipped at submission
// time. Best effort: any failure means no text for that photo.
func (c *Composer) lateExtract(ctx context.Context, url string) string {
	data, err := c.fetch(ctx, url)
	if err != nil {
		log.Printf("could not fetch %s for text extraction, skipping: %v", url, err)
		return ""
	}
	text, err := c.extractor.Extract(ctx, data)
	if err != nil {
		log.Printf("text extraction failed for %s, skipping: %v", url, err)
		return ""
	}
	return text
}

func (c *Composer) resolveTitle(ctx context.Context, narrative, location, travelDate string, photoCount int, autoTitle bool) (string, error) {
	if !autoTitle {
		return location + " Travel Notes", nil
	}

	if title := FirstHeading(narrative); title != "" {
		return title, nil
	}

	// Narrative came back without a usable heading; ask for a title directly.
	return c.gen.GenerateTitle(ctx, BuildTitlePrompt(location, travelDate, photoCount))
}

// FirstHeading returns the first non-empty line of a Markdown document with
// leading '#' markers and whitespace stripped. Empty when the document has no
// non-blank line at all.
func FirstHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(line, "#"))
	}
	return ""
}
