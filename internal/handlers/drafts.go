package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripnote/tripnote-backend/internal/services"
)

const maxBatchUploadBytes = 50 << 20 // 50MB across all photos in one batch

type DraftResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Draft   interface{} `json:"draft,omitempty"`
	Batch   interface{} `json:"batch,omitempty"`
}

// CreateDraft starts a new journal session for the authenticated user.
func CreateDraft(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	draft, err := services.CreateDraft(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create draft")
		return
	}

	writeJSON(w, http.StatusCreated, DraftResponse{Success: true, Draft: draft})
}

// GetDraft returns the draft with its accumulated batches.
func GetDraft(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	draft, err := services.GetDraft(r.Context(), username, chi.URLParam(r, "draftID"))
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}

	writeJSON(w, http.StatusOK, DraftResponse{Success: true, Draft: draft})
}

// DeleteDraft cancels a journal session and best-effort deletes its uploaded
// photos. Listing by storage prefix also catches photos from batches that were
// removed earlier; deletion failures are logged, not surfaced.
func DeleteDraft(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	draftID := chi.URLParam(r, "draftID")

	if _, err := services.GetDraft(r.Context(), username, draftID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Draft not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}

	if err := services.DeleteDraft(r.Context(), username, draftID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete draft")
		return
	}

	urls, err := objectStore.ListUnder(r.Context(), username, draftID)
	if err != nil {
		log.Printf("WARNING: draft %s cancelled but its photos could not be listed for cleanup: %v", draftID, err)
	}
	for _, url := range urls {
		if err := objectStore.Delete(r.Context(), url); err != nil {
			log.Printf("WARNING: draft %s cancelled but photo left orphaned: %v", draftID, err)
		}
	}

	writeJSON(w, http.StatusOK, DraftResponse{Success: true, Message: "Draft discarded"})
}

// SubmitBatch accepts a multipart form with one or more "photos" files and a
// "comment" field, uploads the photos and appends the batch to the draft.
func SubmitBatch(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	draft, err := services.GetDraft(r.Context(), username, chi.URLParam(r, "draftID"))
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}

	if err := r.ParseMultipartForm(maxBatchUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	fileHeaders := r.MultipartForm.File["photos"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "At least one photo is required")
		return
	}

	photos := make([]services.Photo, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read photo "+fh.Filename)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read photo "+fh.Filename)
			return
		}
		photos = append(photos, services.Photo{Filename: fh.Filename, Bytes: data})
	}

	comment := r.FormValue("comment")

	batch, err := assembler.SubmitBatch(r.Context(), draft, photos, comment)
	if err != nil {
		var storageErr *services.StorageError
		if errors.As(err, &storageErr) {
			log.Printf("ERROR: batch upload failed at %s: %v", storageErr.Filename, storageErr.Err)
			writeError(w, http.StatusBadGateway, "Failed to upload photo "+storageErr.Filename)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := services.SaveDraft(r.Context(), draft); err != nil {
		log.Printf("ERROR: failed to save draft after batch %s; %d uploaded photos orphaned: %v", batch.BatchID, len(batch.ImageURLs), err)
		writeError(w, http.StatusInternalServerError, "Failed to save draft")
		return
	}

	writeJSON(w, http.StatusCreated, DraftResponse{Success: true, Batch: batch})
}

// DeleteBatch removes one batch from the draft. Its uploaded photos are left
// in the object store and logged as orphaned.
func DeleteBatch(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	draft, err := services.GetDraft(r.Context(), username, chi.URLParam(r, "draftID"))
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}

	batchID := chi.URLParam(r, "batchID")
	if err := services.RemoveBatch(r.Context(), draft, batchID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Batch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update draft")
		return
	}

	log.Printf("WARNING: batch %s removed from draft %s; its uploaded photos remain in object storage", batchID, draft.DraftID)

	writeJSON(w, http.StatusOK, DraftResponse{Success: true, Message: "Batch removed"})
}
