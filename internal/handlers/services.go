package handlers

import (
	"context"
	"fmt"

	"github.com/tripnote/tripnote-backend/internal/config"
	"github.com/tripnote/tripnote-backend/internal/services"
)

var (
	objectStore *services.CloudinaryStore
	ocrClient   *services.OCRClient
	asrClient   *services.ASRClient
	genAI       *services.GenAIService
	assembler   *services.Assembler
	composer    *services.Composer
)

// InitServices wires the upstream adapters the handlers use. OCR and ASR are
// optional; when unconfigured the pipeline degrades to no extraction instead
// of failing.
func InitServices(ctx context.Context, cfg *config.Config) error {
	store, err := services.NewCloudinaryStore(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.StorageRootFolder)
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}
	objectStore = store

	if cfg.OCREndpoint != "" {
		ocrClient = services.NewOCRClient(cfg.OCREndpoint, cfg.OCRAPIKey)
	}
	if cfg.ASREndpoint != "" {
		asrClient = services.NewASRClient(cfg.ASREndpoint, cfg.ASRAppKey, cfg.ASRToken)
	}

	gen, err := services.NewGenAIService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("generation client: %w", err)
	}
	genAI = gen

	var extractor services.TextExtractor
	if ocrClient != nil {
		extractor = ocrClient
	}
	assembler = services.NewAssembler(objectStore, extractor)
	composer = services.NewComposer(genAI, extractor)

	return nil
}

// CloseServices releases clients holding connections.
func CloseServices() {
	if genAI != nil {
		genAI.Close()
	}
}
