package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/tripnote/tripnote-backend/internal/services"
)

const (
	maxImageUploadBytes = 10 << 20 // 10MB
	maxAudioUploadBytes = 20 << 20 // 20MB
)

type ExtractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Text    string `json:"text"`
	Date    string `json:"date,omitempty"`
}

// RecognizeText runs text extraction on one uploaded image. Returns the
// recognized text plus any date found in it (for prefilling the travel date).
func RecognizeText(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(r); !ok {
		unauthorized(w)
		return
	}
	if ocrClient == nil {
		writeError(w, http.StatusServiceUnavailable, "Text recognition is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	text, err := ocrClient.Extract(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Text recognition failed")
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		Success: true,
		Text:    text,
		Date:    services.ExtractDate(text),
	})
}

// TranscribeAudio converts one uploaded audio clip to text.
func TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(r); !ok {
		unauthorized(w)
		return
	}
	if asrClient == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech transcription is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read audio")
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = "wav"
	}
	sampleRate := 16000
	if v := r.FormValue("sample_rate"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			sampleRate = parsed
		}
	}
	language := r.FormValue("language")
	if language == "" {
		language = "en-US"
	}

	text, err := asrClient.Transcribe(r.Context(), data, format, sampleRate, language)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Speech transcription failed")
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{Success: true, Text: text})
}
