package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervu-ai/backend/internal/model"
)

func TestFallbackResponse_SkipIsFixed(t *testing.T) {
	// The skip acknowledgment never varies with the answer text.
	assert.Equal(t, SkipAcknowledgment, FallbackResponse("", true))
	assert.Equal(t, SkipAcknowledgment, FallbackResponse("a perfectly long answer with more than fifteen words in it, which would otherwise hash somewhere", true))
}

func TestFallbackResponse_BriefAnswer(t *testing.T) {
	assert.Equal(t, "I see. Thanks for that.", FallbackResponse("just a few words", false))
}

func TestFallbackResponse_StableHashSelection(t *testing.T) {
	answer := strings.Repeat("a detailed answer about production systems ", 3)
	first := FallbackResponse(answer, false)
	assert.Contains(t, fallbackAcknowledgments, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FallbackResponse(answer, false))
	}
}

func TestRespondToAnswer_GatewayFailureDegrades(t *testing.T) {
	svc := NewInterviewerService(&stubGateway{err: ErrGatewayUnavailable})

	out := svc.RespondToAnswer(context.Background(), ResponderInput{
		CurrentQuestion: "Tell me about a project.",
		CandidateAnswer: "short reply",
		SkipFlag:        true,
	})
	assert.Equal(t, SkipAcknowledgment, out)
}

func TestRespondToAnswer_TrimsGatewayOutput(t *testing.T) {
	svc := NewInterviewerService(&stubGateway{response: "  That sounds like solid work.  \n"})

	out := svc.RespondToAnswer(context.Background(), ResponderInput{
		CurrentQuestion: "Q",
		CandidateAnswer: "a long enough answer to avoid the brief-answer path entirely for sure",
	})
	assert.Equal(t, "That sounds like solid work.", out)
}

func TestBuildResponderSystemPrompt_Rules(t *testing.T) {
	t.Run("skip wins over follow-up pressure", func(t *testing.T) {
		prompt := buildResponderSystemPrompt(ResponderInput{SkipFlag: true, FollowUpCount: 3})
		assert.Contains(t, prompt, "skipped the previous question")
		assert.NotContains(t, prompt, "2 follow-ups")
	})

	t.Run("follow-up saturation triggers topic shift", func(t *testing.T) {
		prompt := buildResponderSystemPrompt(ResponderInput{
			FollowUpCount:   2,
			CandidateAnswer: strings.Repeat("word ", 20),
		})
		assert.Contains(t, prompt, "shift to a different topic")
	})

	t.Run("brief answer gets encouragement", func(t *testing.T) {
		prompt := buildResponderSystemPrompt(ResponderInput{CandidateAnswer: "ten words only"})
		assert.Contains(t, prompt, "gentle encouragement")
	})
}

func TestOpeningLine_FallbackGreetsByName(t *testing.T) {
	svc := NewInterviewerService(&stubGateway{err: ErrGatewayUnavailable})

	out := svc.OpeningLine(context.Background(), map[string]any{"name": "Priya"}, nil)
	assert.True(t, strings.HasPrefix(out, "Hi Priya"))

	// The resume parser's "Not found" placeholder must not leak into the
	// greeting.
	out = svc.OpeningLine(context.Background(), map[string]any{"name": "Not found"}, nil)
	assert.True(t, strings.HasPrefix(out, "Hi there"))
}

func TestClosingLine_DeterministicPerSession(t *testing.T) {
	svc := NewInterviewerService(&stubGateway{})

	summary := model.SessionSummary{SessionID: "session-abc"}
	first := svc.ClosingLine(summary)
	require.Contains(t, closingLines, first)
	assert.Equal(t, first, svc.ClosingLine(summary))
}
