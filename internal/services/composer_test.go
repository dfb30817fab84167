package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnote/tripnote-backend/internal/models"
)

type fakeGenerator struct {
	narrative      string
	narrativeErr   error
	title          string
	titleCalls     int
	lastPrompt     string
	lastTitlePrmpt string
}

func (g *fakeGenerator) ComposeNarrative(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.narrativeErr != nil {
		return "", g.narrativeErr
	}
	return g.narrative, nil
}

func (g *fakeGenerator) GenerateTitle(_ context.Context, prompt string) (string, error) {
	g.titleCalls++
	g.lastTitlePrmpt = prompt
	return g.title, nil
}

func testBatches() []models.Batch {
	return []models.Batch{
		{
			ImageURLs: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
			Comment:   "morning by the lake",
			Extracted: map[string]string{"https://cdn.example.com/a.jpg": "boat rental sign"},
		},
		{
			ImageURLs: []string{"https://cdn.example.com/c.jpg"},
			Comment:   "dinner in the old town",
		},
	}
}

func TestComposeFlattensBatches(t *testing.T) {
	gen := &fakeGenerator{narrative: "# Lakeside Autumn\n\nA quiet morning."}
	c := NewComposer(gen, nil)

	result, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", testBatches(), ComposeOptions{AutoTitle: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/c.jpg",
	}, result.ImageURLs)

	// Extracted text carried over from submission time, re-keyed by flattened
	// photo position.
	assert.Equal(t, map[string]string{"photo_1": "boat rental sign"}, result.ExtractedText)

	assert.Equal(t, "Batch 1: morning by the lake\nBatch 2: dinner in the old town", result.UserNotes)

	// The prompt enumerates every photo URL verbatim.
	for _, url := range result.ImageURLs {
		assert.Contains(t, gen.lastPrompt, url)
	}
}

func TestComposeAutoTitleFromHeading(t *testing.T) {
	gen := &fakeGenerator{narrative: "# Lakeside Autumn\n\nMist on the water.", title: "unused"}
	c := NewComposer(gen, nil)

	result, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", testBatches(), ComposeOptions{AutoTitle: true})
	require.NoError(t, err)

	assert.Equal(t, "Lakeside Autumn", result.Title)
	assert.Zero(t, gen.titleCalls, "heading title must not trigger a generation call")
}

func TestComposeAutoTitleFallback(t *testing.T) {
	gen := &fakeGenerator{narrative: "", title: "Where the Lake Holds the Sky"}
	c := NewComposer(gen, nil)

	result, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", testBatches(), ComposeOptions{AutoTitle: true})
	require.NoError(t, err)

	assert.Equal(t, "Where the Lake Holds the Sky", result.Title)
	assert.Equal(t, 1, gen.titleCalls)
	assert.Contains(t, gen.lastTitlePrmpt, "Hallstatt")
}

func TestComposeDefaultTitle(t *testing.T) {
	gen := &fakeGenerator{narrative: "# Something\n\nBody."}
	c := NewComposer(gen, nil)

	result, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", testBatches(), ComposeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Hallstatt Travel Notes", result.Title)
	assert.Zero(t, gen.titleCalls)
}

func TestComposeProgress(t *testing.T) {
	gen := &fakeGenerator{narrative: "# T\n\nB."}
	c := NewComposer(gen, nil)

	var calls [][2]int
	_, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", testBatches(), ComposeOptions{
		Progress: func(done, total int) { calls = append(calls, [2]int{done, total}) },
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestComposeLateExtraction(t *testing.T) {
	gen := &fakeGenerator{narrative: "# T\n\nB."}
	extractor := &fakeExtractor{
		texts:  map[string]string{"bytes-of-b": "temple plaque", "bytes-of-c": ""},
		failOn: "bytes-of-c",
	}
	c := NewComposer(gen, extractor)
	c.fetch = func(_ context.Context, url string) ([]byte, error) {
		switch url {
		case "https://cdn.example.com/b.jpg":
			return []byte("bytes-of-b"), nil
		case "https://cdn.example.com/c.jpg":
			return []byte("bytes-of-c"), nil
		}
		return nil, errors.New("unexpected fetch: " + url)
	}

	result, err := c.Compose(context.Background(), "Kyoto", "2026-04-02", testBatches(), ComposeOptions{ExtractText: true})
	require.NoError(t, err)

	// photo_1 keeps its submission-time text, photo_2 gets late extraction,
	// photo_3's extraction failure is skipped without failing the compose.
	assert.Equal(t, map[string]string{
		"photo_1": "boat rental sign",
		"photo_2": "temple plaque",
	}, result.ExtractedText)
}

func TestComposeGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{narrativeErr: &GenerationError{Task: "narrative", Err: errors.New("quota exceeded")}}
	c := NewComposer(gen, nil)

	_, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", testBatches(), ComposeOptions{})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "narrative", genErr.Task)
}

func TestComposeRejectsEmptyDraft(t *testing.T) {
	c := NewComposer(&fakeGenerator{}, nil)
	_, err := c.Compose(context.Background(), "Hallstatt", "2026-10-03", nil, ComposeOptions{})
	assert.Error(t, err)
}

func TestFirstHeading(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"# Lakeside Autumn\n\nBody", "Lakeside Autumn"},
		{"\n\n  ## Spaced Heading\nBody", "Spaced Heading"},
		{"### Deep\n", "Deep"},
		{"Plain first line", "Plain first line"},
		{"", ""},
		{"   \n\t\n", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FirstHeading(tc.in), "input %q", tc.in)
	}
	assert.False(t, strings.HasPrefix(FirstHeading("# X"), "#"))
}
