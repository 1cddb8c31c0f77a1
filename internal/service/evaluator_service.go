package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/internal/model"
)

// SessionAssessment aggregates per-answer evaluations into an overall result.
type SessionAssessment struct {
	OverallScore    float64 `json:"overall_score"`
	AverageScore    float64 `json:"average_score"`
	TotalQuestions  int     `json:"total_questions"`
	Answered        int     `json:"answered"`
	Skipped         int     `json:"skipped"`
	Feedback        string  `json:"feedback"`
	PerformanceTier string  `json:"performance_tier"`
}

// EvaluatorService scores a single answer and aggregates a whole session.
// Collaborator failures never surface to the candidate: every path degrades
// to a deterministic result.
type EvaluatorService interface {
	EvaluateAnswer(ctx context.Context, question, candidateAnswer string, jobContext map[string]any, meta *model.Question) model.Evaluation
	AggregateSession(responses []model.Response) SessionAssessment
}

type evaluatorService struct {
	gateway LLMGateway
}

func NewEvaluatorService(gateway LLMGateway) EvaluatorService {
	return &evaluatorService{gateway: gateway}
}

func (s *evaluatorService) EvaluateAnswer(ctx context.Context, question, candidateAnswer string, jobContext map[string]any, meta *model.Question) model.Evaluation {
	// Degenerate answers short-circuit without touching the gateway.
	if len(strings.TrimSpace(candidateAnswer)) < 10 {
		return model.Evaluation{
			Feedback: "No substantial answer provided. Consider elaborating on your response.",
			Score:    1,
		}
	}

	prompt := buildEvaluationPrompt(question, candidateAnswer, jobContext, meta)

	raw, err := s.gateway.Complete(ctx, prompt, "", 512, 0.1)
	if err != nil {
		log.Error().Err(err).Msg("LLM gateway failed during answer evaluation")
		return FallbackEvaluation(candidateAnswer)
	}

	eval, err := parseEvaluation(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse evaluation response")
		return FallbackEvaluation(candidateAnswer)
	}

	log.Info().Int("score", eval.Score).Msg("Answer evaluated")
	return eval
}

func buildEvaluationPrompt(question, candidateAnswer string, jobContext map[string]any, meta *model.Question) string {
	targetRole := stringFromContext(jobContext, "target_role", "the position")
	experienceLevel := stringFromContext(jobContext, "experience_level", "your level")
	interviewType := stringFromContext(jobContext, "interview_type", "Technical")

	category := "general"
	if meta != nil {
		category = string(meta.Category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert technical interviewer evaluating a candidate for a %s position (%s experience).\n\n", targetRole, experienceLevel)
	fmt.Fprintf(&b, "Interview Type: %s\nQuestion Category: %s\n\n", interviewType, category)
	fmt.Fprintf(&b, "Question Asked:\n%q\n\nCandidate's Answer:\n%q\n\n", question, candidateAnswer)
	b.WriteString("Evaluate this answer based on:\n")
	b.WriteString("1. Relevance to the question\n")
	b.WriteString("2. Technical accuracy (if applicable)\n")
	b.WriteString("3. Communication clarity\n")
	b.WriteString("4. Depth of knowledge\n")
	b.WriteString("5. Whether answer matches experience level expectations\n\n")
	b.WriteString("Provide:\n")
	b.WriteString("- Short, constructive feedback (2-3 sentences max)\n")
	b.WriteString("- Score from 1-10\n")
	b.WriteString("- Follow-up question ONLY if answer is weak/incomplete (optional)\n\n")
	b.WriteString("Return ONLY valid JSON with NO markdown:\n")
	b.WriteString(`{"feedback": "constructive feedback here", "score": 7, "follow_up_question": "optional follow-up if needed"}`)
	return b.String()
}

// parseEvaluation validates the gateway payload field by field, substituting
// defaults for anything missing or malformed rather than rejecting the whole
// response.
func parseEvaluation(raw string) (model.Evaluation, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &payload); err != nil {
		return model.Evaluation{}, err
	}

	eval := model.Evaluation{Feedback: "Answer received.", Score: 5}

	if feedback, ok := payload["feedback"].(string); ok && feedback != "" {
		eval.Feedback = feedback
	}
	if score, ok := coerceInt(payload["score"]); ok {
		eval.Score = score
	}
	eval.Score = clampScore(eval.Score)

	if followUp, ok := payload["follow_up_question"].(string); ok && followUp != "" {
		eval.FollowUpQuestion = &followUp
	}
	return eval, nil
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func stringFromContext(ctx map[string]any, key, fallback string) string {
	if ctx == nil {
		return fallback
	}
	if v, ok := ctx[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// FallbackEvaluation is the deterministic length-bucketed heuristic used when
// the gateway is unreachable or returns garbage. Same bucket in, same result
// out.
func FallbackEvaluation(answer string) model.Evaluation {
	length := len(strings.TrimSpace(answer))

	if length < 50 {
		followUp := "Can you elaborate more on this with specific examples?"
		return model.Evaluation{
			Feedback:         "Your answer is quite brief. Try to provide more details and examples.",
			Score:            4,
			FollowUpQuestion: &followUp,
		}
	}
	if length < 150 {
		return model.Evaluation{
			Feedback: "Good start! Consider adding more depth and specific examples to strengthen your answer.",
			Score:    6,
		}
	}
	return model.Evaluation{
		Feedback: "Thank you for the detailed response. Make sure your answer directly addresses all aspects of the question.",
		Score:    7,
	}
}

// AggregateSession averages the merged evaluations over answered responses
// and maps the result to a performance tier.
func (s *evaluatorService) AggregateSession(responses []model.Response) SessionAssessment {
	if len(responses) == 0 {
		return SessionAssessment{Feedback: "No responses to evaluate.", PerformanceTier: "Needs Improvement"}
	}

	totalScore, evaluated := 0, 0
	answered, skipped := 0, 0
	for _, r := range responses {
		if r.Skipped {
			skipped++
			continue
		}
		answered++
		if r.Evaluation != nil {
			totalScore += r.Evaluation.Score
			evaluated++
		}
	}

	average := 0.0
	if evaluated > 0 {
		average = float64(totalScore) / float64(evaluated)
	}
	average = math.Round(average*10) / 10

	return SessionAssessment{
		OverallScore:    average,
		AverageScore:    average,
		TotalQuestions:  len(responses),
		Answered:        answered,
		Skipped:         skipped,
		Feedback:        tierFeedback(average),
		PerformanceTier: performanceTier(average),
	}
}

func performanceTier(average float64) string {
	switch {
	case average >= 8:
		return "Excellent"
	case average >= 6:
		return "Good"
	case average >= 4:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func tierFeedback(average float64) string {
	switch {
	case average >= 8:
		return "Excellent performance! Strong technical knowledge and communication skills."
	case average >= 6:
		return "Good performance overall. Some areas could use more depth."
	case average >= 4:
		return "Fair performance. Consider strengthening your technical knowledge and practice articulating your thoughts."
	default:
		return "Needs improvement. Focus on understanding core concepts and practice interview skills."
	}
}
