package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Per-task personas. Each generation task gets its own system framing,
// temperature and output budget.
const (
	narrativeSystemInstruction = "You are a professional travel writer who records journeys in elegant, " +
		"grounded prose. You never invent events the traveler did not mention."

	titleSystemInstruction = "You are an editor with a gift for titles. " +
		"Return only the title itself, nothing else."

	photoDescSystemInstruction = "You are a professional travel writer. " +
		"Return only the requested description, nothing else."

	chatSystemInstruction = "You are a friendly assistant."
)

// GenAIService wraps the Gemini API: one method per generation task, each a
// single request/response round trip. Failures surface as *GenerationError
// and are never retried here.
type GenAIService struct {
	client    *genai.Client
	modelName string
}

func NewGenAIService(ctx context.Context, apiKey, modelName string) (*GenAIService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIService{client: client, modelName: modelName}, nil
}

func (s *GenAIService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *GenAIService) generate(ctx context.Context, task, system, prompt string, temperature float32, maxTokens int32) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temperature,
		MaxOutputTokens: &maxTokens,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Task: task, Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Task: task, Err: fmt.Errorf("empty response")}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", &GenerationError{Task: task, Err: fmt.Errorf("non-text response")}
	}

	return strings.TrimSpace(out.String()), nil
}

// ComposeNarrative generates the full journal text. Moderate temperature,
// long output.
func (s *GenAIService) ComposeNarrative(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, "narrative", narrativeSystemInstruction, prompt, 0.8, 2000)
}

// GenerateTitle generates a short journal title. High temperature, short output.
func (s *GenAIService) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	title, err := s.generate(ctx, "title", titleSystemInstruction, prompt, 0.9, 100)
	if err != nil {
		return "", err
	}
	return strings.Trim(title, "\"'\n\r\t ."), nil
}

// DescribePhoto generates a description paragraph for a single photo.
func (s *GenAIService) DescribePhoto(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, "photo description", photoDescSystemInstruction, prompt, 0.7, 500)
}

// Chat answers a free-form user message with an optional system persona.
func (s *GenAIService) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = chatSystemInstruction
	}
	return s.generate(ctx, "chat", systemPrompt, message, 0.7, 1000)
}
