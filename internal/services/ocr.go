package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// OCRClient extracts text from images via an external recognition service.
// "No text found" is a normal outcome (empty string), never an error; only
// transport failures are reported.
type OCRClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewOCRClient(endpoint, apiKey string) *OCRClient {
	return &OCRClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// The recognition service wraps its payload in a Data field that is itself a
// JSON-encoded string on some API versions and a plain object on others.
type ocrResponse struct {
	Data json.RawMessage `json:"Data"`
}

type ocrPayload struct {
	Content        string `json:"content"`
	PrismWordsInfo []struct {
		Word string `json:"word"`
	} `json:"prism_wordsInfo"`
}

// Extract runs general text recognition on an image.
func (c *OCRClient) Extract(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/recognize/general", bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ocr response read failed: %w", err)
	}

	var envelope ocrResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("ocr response decode failed: %w", err)
	}
	if len(envelope.Data) == 0 {
		return "", nil
	}

	raw := envelope.Data
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return "", fmt.Errorf("ocr response decode failed: %w", err)
		}
		raw = []byte(inner)
	}

	var payload ocrPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Garbled payload is treated as "no text"; the service answered.
		return "", nil
	}

	if payload.Content != "" {
		return payload.Content, nil
	}

	var words []string
	for _, w := range payload.PrismWordsInfo {
		if w.Word != "" {
			words = append(words, w.Word)
		}
	}
	return strings.Join(words, " "), nil
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`),
	regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
	regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`),
}

// ExtractDate looks for a date in the recognized text (useful for prefilling
// the travel date from ticket stubs). Returns "" when none is found.
func ExtractDate(text string) string {
	for _, re := range datePatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		t, err := time.Parse("2006-1-2", fmt.Sprintf("%s-%s-%s", match[1], match[2], match[3]))
		if err != nil {
			continue // invalid date like Feb 30, keep looking
		}
		return t.Format("2006-01-02")
	}
	return ""
}
