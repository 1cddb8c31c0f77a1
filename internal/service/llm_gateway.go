package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/intervu-ai/backend/config"
)

// ErrGatewayUnavailable is returned when the LLM client was never initialized
// (missing API key). Callers degrade to their deterministic fallbacks.
var ErrGatewayUnavailable = errors.New("llm gateway unavailable")

const defaultGeminiModel = "gemini-1.5-flash"

// LLMGateway is the single text-completion operation the rest of the system
// consumes. Question generation, answer evaluation, and interviewer responses
// are all stateless calls through it.
type LLMGateway interface {
	Complete(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float32) (string, error)
	// CompleteWithFile sends a document (e.g. a resume PDF) alongside the
	// prompt for multimodal extraction.
	CompleteWithFile(ctx context.Context, prompt, mimeType string, data []byte, maxTokens int) (string, error)
}

type geminiGateway struct {
	client *genai.Client
	cfg    *config.Config
}

// NewGeminiGateway builds the Gemini-backed gateway. A missing API key yields
// a degraded gateway rather than a startup failure: every caller has a
// deterministic fallback, and the interview must never halt because the LLM
// is down.
func NewGeminiGateway(cfg *config.Config) (LLMGateway, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. LLM gateway will be non-functional.")
		return &geminiGateway{cfg: cfg}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiGateway{client: client, cfg: cfg}, nil
}

func (g *geminiGateway) Complete(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float32) (string, error) {
	if g.client == nil {
		return "", ErrGatewayUnavailable
	}

	m := g.client.GenerativeModel(defaultGeminiModel)
	m.SetTemperature(temperature)
	if maxTokens > 0 {
		m.SetMaxOutputTokens(int32(maxTokens))
	}
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", err
	}
	return extractResponseText(resp)
}

func (g *geminiGateway) CompleteWithFile(ctx context.Context, prompt, mimeType string, data []byte, maxTokens int) (string, error) {
	if g.client == nil {
		return "", ErrGatewayUnavailable
	}

	m := g.client.GenerativeModel(defaultGeminiModel)
	m.SetTemperature(0.1)
	if maxTokens > 0 {
		m.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := m.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: data}, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("mimeType", mimeType).Msg("Gemini API error on file completion")
		return "", err
	}
	return extractResponseText(resp)
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return "", fmt.Errorf("gemini returned no content")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return b.String(), nil
}

// cleanJSONResponse strips markdown fences and any stray prose around the
// JSON payload an LLM was asked to return.
func cleanJSONResponse(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return "{}"
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndex(text, "}")
	} else {
		end = strings.LastIndex(text, "]")
	}
	if end <= start {
		return "{}"
	}
	return strings.TrimSpace(text[start : end+1])
}
