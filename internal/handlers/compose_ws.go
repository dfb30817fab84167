package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tripnote/tripnote-backend/internal/models"
	"github.com/tripnote/tripnote-backend/internal/services"
)

var composeUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is handled at the HTTP layer.
		return true
	},
}

// ComposeEvent is one message pushed to the client during composition.
type ComposeEvent struct {
	Type    string      `json:"type"` // "progress", "result", "error"
	Done    int         `json:"done,omitempty"`
	Total   int         `json:"total,omitempty"`
	Message string      `json:"message,omitempty"`
	Journal interface{} `json:"journal,omitempty"`
}

// ComposeWS runs journal composition over a WebSocket so the client can show
// per-photo progress, the way the old form UI did with its progress meter.
// The client sends one ComposeRequest, receives progress events, then either
// a result or an error event.
func ComposeWS(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		// Browser WebSocket clients cannot set headers; allow ?token=.
		token = r.URL.Query().Get("token")
	}
	username, ok := services.ValidateSession(r.Context(), token)
	if !ok {
		http.Error(w, "missing or invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := composeUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(8 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var req ComposeRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(ComposeEvent{Type: "error", Message: "invalid compose request"})
		return
	}
	if req.Location == "" || req.TravelDate == "" {
		conn.WriteJSON(ComposeEvent{Type: "error", Message: "location and travel date are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), composeTimeout)
	defer cancel()

	draft, err := services.GetDraft(ctx, username, req.DraftID)
	if err != nil || len(draft.Batches) == 0 {
		conn.WriteJSON(ComposeEvent{Type: "error", Message: "draft not found or empty"})
		return
	}

	result, err := composer.Compose(ctx, req.Location, req.TravelDate, draft.Batches, services.ComposeOptions{
		ExtractText: req.ExtractText,
		AutoTitle:   req.AutoTitle,
		Progress: func(done, total int) {
			conn.WriteJSON(ComposeEvent{Type: "progress", Done: done, Total: total})
		},
	})
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("ERROR: %s generation failed for draft %s: %v", genErr.Task, req.DraftID, genErr.Err)
		}
		conn.WriteJSON(ComposeEvent{Type: "error", Message: "journal generation failed, please try again"})
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
		conn.WriteJSON(ComposeEvent{Type: "error", Message: "failed to save journal"})
		return
	}

	if err := services.DeleteDraft(ctx, username, req.DraftID); err != nil {
		log.Printf("WARNING: journal %s saved but draft %s not cleaned up: %v", journal.NoteID, req.DraftID, err)
	}

	conn.WriteJSON(ComposeEvent{Type: "result", Journal: journal})
}
