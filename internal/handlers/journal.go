package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripnote/tripnote-backend/internal/models"
	"github.com/tripnote/tripnote-backend/internal/services"
)

// composeTimeout bounds one composition run end to end: optional late
// extraction plus one or two generation calls.
const composeTimeout = 120 * time.Second

type ComposeRequest struct {
	DraftID     string `json:"draft_id"`
	Location    string `json:"location"`
	TravelDate  string `json:"travel_date"`
	AutoTitle   bool   `json:"auto_title"`
	ExtractText bool   `json:"extract_text"`
}

type JournalResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Journal interface{} `json:"journal,omitempty"`
}

type ListJournalsResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	Journals []models.JournalSummary `json:"journals"`
}

// ComposeJournal turns a draft's batches into a persisted journal: generates
// the narrative, resolves the title, stores the record and discards the
// draft. There is no rollback across these steps; a failed persist leaves the
// uploaded photos in place and logs them as orphaned.
func ComposeJournal(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Location == "" {
		writeError(w, http.StatusBadRequest, "Location is required")
		return
	}
	if req.TravelDate == "" {
		writeError(w, http.StatusBadRequest, "Travel date is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), composeTimeout)
	defer cancel()

	draft, err := services.GetDraft(ctx, username, req.DraftID)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	if len(draft.Batches) == 0 {
		writeError(w, http.StatusBadRequest, "Draft has no batches to compose")
		return
	}

	result, err := composer.Compose(ctx, req.Location, req.TravelDate, draft.Batches, services.ComposeOptions{
		ExtractText: req.ExtractText,
		AutoTitle:   req.AutoTitle,
	})
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("ERROR: %s generation failed for draft %s: %v", genErr.Task, req.DraftID, genErr.Err)
			writeError(w, http.StatusBadGateway, "Journal generation failed, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	journal := &models.Journal{
		NoteID:        uuid.NewString(),
		Owner:         username,
		Title:         result.Title,
		Location:      req.Location,
		TravelDate:    req.TravelDate,
		Images:        result.ImageURLs,
		ExtractedText: result.ExtractedText,
		UserNotes:     result.UserNotes,
		Narrative:     result.Narrative,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := services.CreateJournal(ctx, journal); err != nil {
		log.Printf("ERROR: failed to persist journal for draft %s; %d uploaded photos orphaned in object storage: %v",
			req.DraftID, len(result.ImageURLs), err)
		writeError(w, http.StatusInternalServerError, "Failed to save journal")
		return
	}

	if err := services.DeleteDraft(ctx, username, req.DraftID); err != nil {
		log.Printf("WARNING: journal %s saved but draft %s not cleaned up: %v", journal.NoteID, req.DraftID, err)
	}

	writeJSON(w, http.StatusCreated, JournalResponse{
		Success: true,
		Message: "Journal created successfully",
		Journal: journal,
	})
}

// GetJournals returns journal summaries for the authenticated user, newest
// first.
func GetJournals(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	journals, err := services.ListJournals(ctx, username, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list journals")
		return
	}
	if journals == nil {
		journals = []models.JournalSummary{}
	}

	writeJSON(w, http.StatusOK, ListJournalsResponse{Success: true, Journals: journals})
}

// GetJournal returns one journal. A journal owned by someone else is reported
// as not found.
func GetJournal(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	journal, err := services.GetJournal(ctx, username, chi.URLParam(r, "noteID"))
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Journal not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}

	writeJSON(w, http.StatusOK, JournalResponse{Success: true, Journal: journal})
}

type UpdateJournalRequest struct {
	Title      *string   `json:"title"`
	Location   *string   `json:"location"`
	TravelDate *string   `json:"travel_date"`
	Images     *[]string `json:"images"`
	UserNotes  *string   `json:"user_notes"`
	Narrative  *string   `json:"narrative"`
}

// UpdateJournal applies a partial update to a journal's editable fields.
func UpdateJournal(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req UpdateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := services.UpdateJournal(ctx, username, chi.URLParam(r, "noteID"), services.JournalUpdate{
		Title:      req.Title,
		Location:   req.Location,
		TravelDate: req.TravelDate,
		Images:     req.Images,
		UserNotes:  req.UserNotes,
		Narrative:  req.Narrative,
	})
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Journal not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update journal")
		return
	}

	writeJSON(w, http.StatusOK, JournalResponse{Success: true, Message: "Journal updated"})
}

// DeleteJournal removes a journal and best-effort deletes its stored photos.
// Photo deletion failures are logged, not surfaced; the record is already gone.
func DeleteJournal(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	journal, err := services.DeleteJournal(ctx, username, chi.URLParam(r, "noteID"))
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Journal not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete journal")
		return
	}

	for _, url := range journal.Images {
		if err := objectStore.Delete(ctx, url); err != nil {
			log.Printf("WARNING: journal %s deleted but photo left orphaned: %v", journal.NoteID, err)
		}
	}

	writeJSON(w, http.StatusOK, JournalResponse{Success: true, Message: "Journal deleted"})
}
