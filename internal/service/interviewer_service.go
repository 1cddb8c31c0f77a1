package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/internal/model"
)

// SkipAcknowledgment is the fixed fallback reply after a skipped question.
const SkipAcknowledgment = "No worries, we can revisit that later."

// fallbackAcknowledgments are rotated by a stable hash of the answer text, so
// an identical answer always earns the same canned reply.
var fallbackAcknowledgments = []string{
	"Thanks for sharing.",
	"I see. Good context.",
	"Got it. Interesting.",
	"Understood.",
	"That makes sense.",
	"Okay, thanks.",
	"Interesting.",
	"Alright, clear.",
}

var closingLines = []string{
	"Thank you for your time today. We've covered a lot of ground, and I appreciate your detailed answers. We'll be in touch soon regarding next steps.",
	"That wraps up our interview. I appreciate you sharing your experiences with me. The team will review everything and get back to you shortly.",
	"Great, we're all set. Thanks for walking me through your background and projects. We'll follow up with you about next steps in the coming days.",
}

// ResponderInput is the session-state snapshot the responder reads. It never
// owns or mutates any of it.
type ResponderInput struct {
	CurrentQuestion string
	CandidateAnswer string
	ResumeContext   map[string]any
	JobContext      map[string]any
	FollowUpCount   int
	SkipFlag        bool
	PreviousTopic   model.Category
	TopicsUsed      []model.Category
}

// InterviewerService produces the natural-language interviewer side of a
// conversational session: turn acknowledgments plus opening and closing
// lines. No scores, no questions.
type InterviewerService interface {
	RespondToAnswer(ctx context.Context, in ResponderInput) string
	OpeningLine(ctx context.Context, resumeData, jobContext map[string]any) string
	ClosingLine(summary model.SessionSummary) string
}

type interviewerService struct {
	gateway LLMGateway
}

func NewInterviewerService(gateway LLMGateway) InterviewerService {
	return &interviewerService{gateway: gateway}
}

func (s *interviewerService) RespondToAnswer(ctx context.Context, in ResponderInput) string {
	systemPrompt := buildResponderSystemPrompt(in)

	var b strings.Builder
	fmt.Fprintf(&b, "Current Question:\n%s\n\nCandidate Answer:\n%s\n", in.CurrentQuestion, in.CandidateAnswer)
	if in.JobContext != nil {
		fmt.Fprintf(&b, "\nTarget Role: %s\nExperience Level: %s\n",
			stringFromContext(in.JobContext, "target_role", "Software Developer"),
			stringFromContext(in.JobContext, "experience_level", "1-3 years"))
	}
	b.WriteString("\nAcknowledge their answer naturally like a real human interviewer would.\n")
	b.WriteString("Guidelines: be VERY brief (1-2 sentences), no questions, no scores, professional but friendly.\n")
	b.WriteString("Return ONLY the brief acknowledgment as plain text.")

	response, err := s.gateway.Complete(ctx, b.String(), systemPrompt, 60, 0.5)
	if err != nil || strings.TrimSpace(response) == "" {
		log.Error().Err(err).Msg("LLM gateway failed for interviewer response")
		return FallbackResponse(in.CandidateAnswer, in.SkipFlag)
	}
	return strings.TrimSpace(response)
}

func buildResponderSystemPrompt(in ResponderInput) string {
	var rule string
	switch {
	case in.SkipFlag:
		rule = "IMPORTANT: The candidate skipped the previous question. Be supportive, do NOT repeat the skipped question, and smoothly transition to a new topic."
	case in.FollowUpCount >= 2:
		rule = "IMPORTANT: You've already asked 2 follow-ups on this topic. Stop digging deeper, acknowledge briefly, and signal a shift to a different topic."
	case len(strings.Fields(in.CandidateAnswer)) < 15:
		rule = "The answer seems brief. Give gentle encouragement and acknowledge what they said positively. Never say it was wrong or too short."
	}

	var b strings.Builder
	b.WriteString("You are a highly experienced human interviewer conducting a real job interview.\n")
	b.WriteString("Speak naturally, not robotic. NO scoring, NO evaluation language, NO bullet points.\n")
	b.WriteString("1-2 sentences maximum. React genuinely, keep it short and crisp.\n")
	if rule != "" {
		b.WriteString("\n")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	b.WriteString("\nAvoid dwelling too long on one topic. Never mention internal bookkeeping like follow-up counts or skip flags.")
	return b.String()
}

// FallbackResponse is the deterministic canned acknowledgment used when the
// gateway fails. The skip acknowledgment is fixed regardless of the answer.
func FallbackResponse(answer string, skipFlag bool) string {
	if skipFlag {
		return SkipAcknowledgment
	}
	if len(strings.Fields(answer)) < 15 {
		return "I see. Thanks for that."
	}

	h := fnv.New32a()
	h.Write([]byte(answer))
	return fallbackAcknowledgments[int(h.Sum32())%len(fallbackAcknowledgments)]
}

func (s *interviewerService) OpeningLine(ctx context.Context, resumeData, jobContext map[string]any) string {
	username := stringFromContext(resumeData, "name", "there")
	if username == "Not found" {
		username = "there"
	}
	targetRole := stringFromContext(jobContext, "target_role", "Software Developer")
	experienceLevel := stringFromContext(jobContext, "experience_level", "1-3 years")

	systemPrompt := fmt.Sprintf(`You are a professional, friendly human interviewer starting a real job interview.
Candidate Name: %s
Target Role: %s
Experience Level: %s

Your first message must greet the candidate by name, welcome them warmly, ask for a brief self-introduction, and ask them to highlight key projects. 2-4 sentences, natural spoken English, not robotic.`, username, targetRole, experienceLevel)

	prompt := fmt.Sprintf("Generate the opening question for the interview with %s (role: %s, level: %s). Keep it conversational and human.", username, targetRole, experienceLevel)

	response, err := s.gateway.Complete(ctx, prompt, systemPrompt, 150, 0.6)
	if err != nil || strings.TrimSpace(response) == "" {
		log.Warn().Err(err).Msg("LLM failed for opening question, using template")
		return openingFallback(username)
	}
	return strings.TrimSpace(response)
}

func openingFallback(username string) string {
	greeting := "Hi there"
	if username != "" && username != "there" {
		greeting = "Hi " + username
	}
	return greeting + ", thanks for joining me today! I'd love to hear a bit about yourself and your background. Could you walk me through your experience and tell me about some key projects you've worked on?"
}

// ClosingLine picks a closing statement deterministically from the session
// identity, so retries of the same summary render the same line.
func (s *interviewerService) ClosingLine(summary model.SessionSummary) string {
	h := fnv.New32a()
	h.Write([]byte(summary.SessionID))
	return closingLines[int(h.Sum32())%len(closingLines)]
}
