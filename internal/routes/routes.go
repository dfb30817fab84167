package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/tripnote/tripnote-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/change-password", handlers.ChangePassword)

	// Draft routes (in-progress journal sessions)
	r.Post("/api/drafts", handlers.CreateDraft)
	r.Get("/api/drafts/{draftID}", handlers.GetDraft)
	r.Delete("/api/drafts/{draftID}", handlers.DeleteDraft)
	r.Post("/api/drafts/{draftID}/batches", handlers.SubmitBatch)
	r.Delete("/api/drafts/{draftID}/batches/{batchID}", handlers.DeleteBatch)

	// Journal routes
	r.Post("/api/journals/compose", handlers.ComposeJournal)
	r.Get("/api/journals", handlers.GetJournals)
	r.Get("/api/journals/{noteID}", handlers.GetJournal)
	r.Put("/api/journals/{noteID}", handlers.UpdateJournal)
	r.Delete("/api/journals/{noteID}", handlers.DeleteJournal)

	// Standalone extraction routes
	r.Post("/api/ocr", handlers.RecognizeText)
	r.Post("/api/speech/transcribe", handlers.TranscribeAudio)

	// Standalone generation routes
	r.Post("/api/photos/describe", handlers.DescribePhoto)
	r.Post("/api/chat", handlers.Chat)

	// WebSocket endpoint for composition with progress events
	r.Get("/ws/compose", handlers.ComposeWS)
}
