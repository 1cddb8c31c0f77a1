package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxResumeSizeBytes caps uploaded resume files.
const MaxResumeSizeBytes = 10 * 1024 * 1024

// ResumeService turns an uploaded resume PDF into structured candidate data
// via a single multimodal gateway call. Stateless.
type ResumeService interface {
	ParseResume(ctx context.Context, pdfData []byte) (map[string]any, error)
}

type resumeService struct {
	gateway LLMGateway
}

func NewResumeService(gateway LLMGateway) ResumeService {
	return &resumeService{gateway: gateway}
}

func (s *resumeService) ParseResume(ctx context.Context, pdfData []byte) (map[string]any, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty resume file")
	}
	if len(pdfData) > MaxResumeSizeBytes {
		return nil, fmt.Errorf("resume file exceeds %d bytes", MaxResumeSizeBytes)
	}

	raw, err := s.gateway.CompleteWithFile(ctx, resumeExtractionPrompt(), "application/pdf", pdfData, 4096)
	if err != nil {
		log.Error().Err(err).Msg("LLM gateway failed during resume parsing")
		return nil, fmt.Errorf("resume parsing failed: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &parsed); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Unparseable resume extraction payload")
		return nil, fmt.Errorf("could not parse resume extraction response: %w", err)
	}

	validated := ValidateParsedResume(parsed)
	log.Info().Str("name", stringFromContext(validated, "name", "")).Msg("Resume parsed")
	return validated, nil
}

func resumeExtractionPrompt() string {
	var b strings.Builder
	b.WriteString("Extract structured information from the attached resume PDF.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Look for email addresses (contains @) and phone numbers.\n")
	b.WriteString("2. Identify skills from technical terms, languages, tools, and frameworks mentioned anywhere.\n")
	b.WriteString("3. Parse education even if formatted differently (degree keywords: B.E., B.Tech, M.S., MBA, Bachelor, Master, PhD).\n")
	b.WriteString("4. Extract work experience from sections with company names, job titles, and date ranges.\n\n")
	b.WriteString("Return ONLY valid JSON with NO markdown:\n")
	b.WriteString(`{
  "name": "extracted full name or empty string",
  "email": "extracted email or empty string",
  "phone": "extracted phone or empty string",
  "education": [{"degree": "...", "institution": "...", "year": "..."}],
  "skills": ["skill1", "skill2"],
  "experience": [{"title": "...", "company": "...", "duration": "...", "responsibilities": ["..."]}],
  "projects": [{"title": "...", "description": "...", "tech": ["..."]}]
}`)
	return b.String()
}

// ValidateParsedResume fills in defaults field by field so a partially
// malformed extraction still yields a usable profile.
func ValidateParsedResume(parsed map[string]any) map[string]any {
	validated := map[string]any{
		"name":       "",
		"email":      "",
		"phone":      "",
		"education":  []any{},
		"skills":     []any{},
		"experience": []any{},
		"projects":   []any{},
	}
	if parsed == nil {
		return validated
	}

	for _, key := range []string{"name", "email", "phone"} {
		if v, ok := parsed[key].(string); ok {
			validated[key] = strings.TrimSpace(v)
		}
	}
	for _, key := range []string{"education", "skills", "experience", "projects"} {
		if v, ok := parsed[key].([]any); ok {
			validated[key] = v
		}
	}
	return validated
}
