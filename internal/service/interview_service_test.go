package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervu-ai/backend/internal/model"
	"github.com/intervu-ai/backend/internal/store"
)

// newInterviewFixture wires the orchestrator against a scripted gateway,
// with persistence disabled.
func newInterviewFixture(gw *stubGateway) (InterviewService, *store.SessionStore) {
	sessions := store.NewSessionStore(time.Hour, time.Minute)
	svc := NewInterviewService(
		sessions,
		NewQuestionService(gw),
		NewEvaluatorService(gw),
		NewInterviewerService(gw),
		nil,
		nil,
	)
	return svc, sessions
}

func fixtureQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Question: "Introduce yourself.", Category: model.CategoryIntroduction, Difficulty: "easy"},
		{ID: 2, Question: "Walk me through a project.", Category: model.CategoryResumeBased, Difficulty: "medium"},
		{ID: 3, Question: "What was the hardest part?", Category: model.CategoryFollowUp, Difficulty: "medium", FollowUp: true},
	}
}

func TestCreateSession_WithSuppliedQuestions(t *testing.T) {
	svc, sessions := newInterviewFixture(&stubGateway{err: ErrGatewayUnavailable})

	session, first := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions(), nil, nil, 0)

	require.NotNil(t, first)
	assert.Equal(t, 1, first.QuestionNumber)
	assert.Equal(t, 3, first.TotalQuestions)
	assert.Equal(t, session.ID(), first.SessionID)

	got, err := sessions.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestCreateSession_GeneratesWhenEmpty(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{err: ErrGatewayUnavailable})

	session, first := svc.CreateSession(context.Background(), "user-1", nil, nil, nil, nil, 0)

	require.NotNil(t, first)
	_, total := session.Progress()
	assert.Equal(t, 12, total)
}

func TestSubmitAnswer_EvaluatesAndAdvances(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{response: `{"feedback": "Clear and structured.", "score": 8}`})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions(), nil, nil, 0)

	outcome, err := svc.SubmitAnswer(context.Background(), session.ID(), "I am a backend engineer with five years of Go experience.", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, outcome.Evaluation.Score)
	assert.False(t, outcome.Result.Completed)
	require.NotNil(t, outcome.Result.NextQuestion)
	assert.Equal(t, 2, outcome.Result.NextQuestion.QuestionNumber)

	// The evaluation lands on the logged response.
	summary := session.Summary()
	require.NotNil(t, summary.Responses[0].Evaluation)
	assert.Equal(t, "Clear and structured.", summary.Responses[0].Evaluation.Feedback)
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{})
	_, err := svc.SubmitAnswer(context.Background(), "missing", "answer", nil)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSubmitAnswer_CompletedSessionRejected(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{response: `{"feedback": "ok", "score": 5}`})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions()[:1], nil, nil, 0)
	_, err := svc.SubmitAnswer(context.Background(), session.ID(), "a sufficiently long answer", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, session.Status())

	_, err = svc.SubmitAnswer(context.Background(), session.ID(), "one more", nil)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestConversationalAnswer_SkipFlagShapesReply(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{err: ErrGatewayUnavailable})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions(), nil, nil, 0)

	_, err := svc.SkipQuestion(context.Background(), session.ID())
	require.NoError(t, err)

	outcome, err := svc.ConversationalAnswer(context.Background(), session.ID(), "My project was a billing pipeline.", nil)
	require.NoError(t, err)
	assert.Equal(t, SkipAcknowledgment, outcome.InterviewerResponse)

	// The flag is consumed: the next turn reads as a normal answer.
	outcome, err = svc.ConversationalAnswer(context.Background(), session.ID(), "short", nil)
	require.NoError(t, err)
	assert.NotEqual(t, SkipAcknowledgment, outcome.InterviewerResponse)
}

func TestConversationalAnswer_CompletionClosesSession(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{err: ErrGatewayUnavailable})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions()[:1], nil, nil, 0)

	outcome, err := svc.ConversationalAnswer(context.Background(), session.ID(), "A complete answer about my background.", nil)
	require.NoError(t, err)
	assert.True(t, outcome.Completed)
	assert.Nil(t, outcome.NextQuestion)
	assert.NotEmpty(t, outcome.ClosingLine)
	assert.Equal(t, model.StatusCompleted, session.Status())
}

func TestConversationalAnswer_FollowUpBookkeeping(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{err: ErrGatewayUnavailable})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions(), nil, nil, 0)

	// Answer the first two questions to reach the follow-up question.
	_, err := svc.ConversationalAnswer(context.Background(), session.ID(), "answer one", nil)
	require.NoError(t, err)
	_, err = svc.ConversationalAnswer(context.Background(), session.ID(), "answer two", nil)
	require.NoError(t, err)

	_, err = svc.ConversationalAnswer(context.Background(), session.ID(), "answer to the follow-up", nil)
	require.NoError(t, err)

	conv := session.Conversation()
	assert.Equal(t, 1, conv.FollowUpCount)
	assert.Contains(t, conv.TopicsUsed, model.CategoryFollowUp)
	// Each turn appends one candidate/interviewer pair.
	assert.Len(t, conv.History, 6)
}

func TestAbandonSession(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions(), nil, nil, 0)

	require.NoError(t, svc.AbandonSession(session.ID()))
	assert.Equal(t, model.StatusAbandoned, session.Status())

	assert.ErrorIs(t, svc.AbandonSession(session.ID()), model.ErrSessionTerminal)

	_, err := svc.SubmitAnswer(context.Background(), session.ID(), "too late", nil)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestSessionSummary_IncludesAssessment(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{response: `{"feedback": "ok", "score": 8}`})

	session, _ := svc.CreateSession(context.Background(), "user-1", nil, fixtureQuestions()[:2], nil, nil, 0)
	_, err := svc.SubmitAnswer(context.Background(), session.ID(), "a long enough first answer", nil)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(context.Background(), session.ID(), "a long enough second answer", nil)
	require.NoError(t, err)

	outcome, err := svc.SessionSummary(session.ID())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, outcome.Summary.Status)
	assert.Equal(t, 8.0, outcome.Assessment.OverallScore)
	assert.Equal(t, "Excellent", outcome.Assessment.PerformanceTier)
	assert.Len(t, outcome.Summary.Responses, 2)
}

func TestOpeningLine_UsesResumeName(t *testing.T) {
	svc, _ := newInterviewFixture(&stubGateway{err: ErrGatewayUnavailable})

	session, _ := svc.CreateSession(context.Background(), "user-1", map[string]any{"name": "Priya"}, fixtureQuestions(), nil, nil, 0)

	opening, err := svc.OpeningLine(context.Background(), session.ID())
	require.NoError(t, err)
	assert.Contains(t, opening, "Priya")

	_, err = svc.OpeningLine(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
