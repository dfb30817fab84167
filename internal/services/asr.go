package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const asrStatusOK = 200000

// ASRClient transcribes audio via an external speech recognition service.
type ASRClient struct {
	endpoint string
	appKey   string
	token    string
	client   *http.Client
}

func NewASRClient(endpoint, appKey, token string) *ASRClient {
	return &ASRClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		appKey:   appKey,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type asrResponse struct {
	Status  int    `json:"status"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

// Transcribe converts one audio clip to text. format is the container format
// (wav, mp3, ...), sampleRate in Hz, language a BCP-47 code like "en-US".
func (c *ASRClient) Transcribe(ctx context.Context, audio []byte, format string, sampleRate int, language string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/stream/v1/asr", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Set("format", format)
	q.Set("sample_rate", strconv.Itoa(sampleRate))
	q.Set("language", language)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-NLS-AppKey", c.appKey)
	req.Header.Set("X-NLS-Token", c.token)
	req.Header.Set("X-NLS-RequestId", uuid.NewString())
	req.Header.Set("X-NLS-Stream", "false")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("asr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asr request failed: HTTP %d", resp.StatusCode)
	}

	var result asrResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("asr response decode failed: %w", err)
	}
	if result.Status != asrStatusOK {
		return "", fmt.Errorf("asr recognition failed: %s", result.Message)
	}

	return result.Result, nil
}

// SupportedFormats lists the audio container formats the service accepts.
func SupportedFormats() []string {
	return []string{"wav", "pcm", "opus", "amr", "flac", "mp3", "m4a"}
}
