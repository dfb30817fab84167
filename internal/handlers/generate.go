package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tripnote/tripnote-backend/internal/services"
)

const generateTimeout = 60 * time.Second

type DescribePhotoRequest struct {
	Location      string `json:"location"`
	Note          string `json:"note"`
	ExtractedText string `json:"extracted_text"`
}

type ChatRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"system_prompt"`
}

type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Text    string `json:"text,omitempty"`
}

// DescribePhoto generates a standalone description paragraph for one photo
// from the user's note and any text recognized in it.
func DescribePhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(r); !ok {
		unauthorized(w)
		return
	}

	var req DescribePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Location == "" {
		writeError(w, http.StatusBadRequest, "Location is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	text, err := genAI.DescribePhoto(ctx, services.BuildPhotoDescPrompt(req.Location, req.Note, req.ExtractedText))
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("ERROR: %s generation failed: %v", genErr.Task, genErr.Err)
		}
		writeError(w, http.StatusBadGateway, "Description generation failed, please try again")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Success: true, Text: text})
}

// Chat answers a free-form question, typically about a journal the user pastes
// into the message.
func Chat(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(r); !ok {
		unauthorized(w)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	reply, err := genAI.Chat(ctx, req.SystemPrompt, req.Message)
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("ERROR: %s generation failed: %v", genErr.Task, genErr.Err)
		}
		writeError(w, http.StatusBadGateway, "Reply generation failed, please try again")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Success: true, Text: reply})
}
