package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervu-ai/backend/internal/dto"
	"github.com/intervu-ai/backend/internal/service"
	"github.com/intervu-ai/backend/internal/store"
)

type scriptedGateway struct {
	response string
	err      error
}

func (g *scriptedGateway) Complete(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float32) (string, error) {
	return g.response, g.err
}

func (g *scriptedGateway) CompleteWithFile(ctx context.Context, prompt, mimeType string, data []byte, maxTokens int) (string, error) {
	return g.response, g.err
}

func newTestRouter(gw service.LLMGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)

	sessions := store.NewSessionStore(time.Hour, time.Minute)
	interviews := service.NewInterviewService(
		sessions,
		service.NewQuestionService(gw),
		service.NewEvaluatorService(gw),
		service.NewInterviewerService(gw),
		nil,
		nil,
	)
	ctrl := NewInterviewController(interviews)

	r := gin.New()
	api := r.Group("/api/v1/interview/sessions")
	api.POST("", ctrl.CreateSession)
	api.GET("/:session_id", ctrl.GetSession)
	api.POST("/:session_id/answer", ctrl.SubmitAnswer)
	api.POST("/:session_id/respond", ctrl.ConversationalAnswer)
	api.POST("/:session_id/skip", ctrl.SkipQuestion)
	api.POST("/:session_id/abandon", ctrl.AbandonSession)
	api.GET("/:session_id/summary", ctrl.GetSummary)
	api.GET("/:session_id/opening", ctrl.GetOpening)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSessionRequest(n int) dto.CreateSessionRequest {
	questions := make([]dto.QuestionDTO, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, dto.QuestionDTO{
			ID:       i,
			Question: fmt.Sprintf("Question %d?", i),
			Category: "technical",
		})
	}
	return dto.CreateSessionRequest{
		UserID:     "user-1",
		ResumeData: map[string]any{"name": "Priya"},
		Questions:  questions,
	}
}

func createSession(t *testing.T, r *gin.Engine, n int) dto.CreateSessionResponse {
	t.Helper()
	w := postJSON(t, r, "/api/v1/interview/sessions", createSessionRequest(n))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateSessionEndpoint(t *testing.T) {
	r := newTestRouter(&scriptedGateway{err: service.ErrGatewayUnavailable})

	resp := createSession(t, r, 3)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 3, resp.TotalQuestions)
	require.NotNil(t, resp.FirstQuestion)
	assert.Equal(t, 1, resp.FirstQuestion.QuestionNumber)
}

func TestCreateSessionEndpoint_MissingResumeData(t *testing.T) {
	r := newTestRouter(&scriptedGateway{})

	w := postJSON(t, r, "/api/v1/interview/sessions", map[string]any{"user_id": "user-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionEndpoint(t *testing.T) {
	r := newTestRouter(&scriptedGateway{err: service.ErrGatewayUnavailable})
	created := createSession(t, r, 2)

	w := doGet(r, "/api/v1/interview/sessions/"+created.SessionID)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SessionStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "in_progress", resp.Status)
	require.NotNil(t, resp.CurrentQuestion)
	assert.Equal(t, 0, resp.Progress.Current)
	assert.Equal(t, 2, resp.Progress.Total)
}

func TestGetSessionEndpoint_NotFound(t *testing.T) {
	r := newTestRouter(&scriptedGateway{})
	w := doGet(r, "/api/v1/interview/sessions/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitAnswerEndpoint_FullRun(t *testing.T) {
	r := newTestRouter(&scriptedGateway{response: `{"feedback": "Well structured.", "score": 8}`})
	created := createSession(t, r, 2)
	base := "/api/v1/interview/sessions/" + created.SessionID

	w := postJSON(t, r, base+"/answer", dto.SubmitAnswerRequest{Answer: "A detailed answer about my work."})
	require.Equal(t, http.StatusOK, w.Code)

	var first dto.SubmitAnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 8, first.Evaluation.Score)
	assert.Equal(t, "success", first.Outcome.Status)
	assert.Equal(t, "Answer recorded", first.Outcome.Message)
	require.NotNil(t, first.Outcome.NextQuestion)

	w = postJSON(t, r, base+"/answer", dto.SubmitAnswerRequest{Answer: "Another detailed answer to finish."})
	require.Equal(t, http.StatusOK, w.Code)

	var last dto.SubmitAnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	assert.Equal(t, "completed", last.Outcome.Status)
	assert.Equal(t, "Interview completed successfully!", last.Outcome.Message)
	assert.Nil(t, last.Outcome.NextQuestion)
	assert.Equal(t, 2, last.Outcome.Answered)

	// Further answers bounce off the completed session.
	w = postJSON(t, r, base+"/answer", dto.SubmitAnswerRequest{Answer: "One more for luck."})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitAnswerEndpoint_EmptyAnswerRejected(t *testing.T) {
	r := newTestRouter(&scriptedGateway{})
	created := createSession(t, r, 2)

	w := postJSON(t, r, "/api/v1/interview/sessions/"+created.SessionID+"/answer", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSkipEndpoint(t *testing.T) {
	r := newTestRouter(&scriptedGateway{err: service.ErrGatewayUnavailable})
	created := createSession(t, r, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/sessions/"+created.SessionID+"/skip", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TurnOutcomeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "Interview completed!", resp.Message)
	assert.Equal(t, 1, resp.Skipped)
}

func TestConversationalEndpoint_ClosesWithLine(t *testing.T) {
	r := newTestRouter(&scriptedGateway{err: service.ErrGatewayUnavailable})
	created := createSession(t, r, 1)

	w := postJSON(t, r, "/api/v1/interview/sessions/"+created.SessionID+"/respond", dto.SubmitAnswerRequest{Answer: "A full answer covering the question."})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ConversationalAnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Completed)
	assert.NotEmpty(t, resp.InterviewerResponse)
	assert.NotEmpty(t, resp.ClosingLine)
	assert.Nil(t, resp.NextQuestion)
}

func TestAbandonEndpoint(t *testing.T) {
	r := newTestRouter(&scriptedGateway{})
	created := createSession(t, r, 2)
	path := "/api/v1/interview/sessions/" + created.SessionID + "/abandon"

	req := httptest.NewRequest(http.MethodPost, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Abandoning twice is a conflict, not a repeatable success.
	req = httptest.NewRequest(http.MethodPost, path, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	r := newTestRouter(&scriptedGateway{response: `{"feedback": "Good depth.", "score": 7}`})
	created := createSession(t, r, 1)
	base := "/api/v1/interview/sessions/" + created.SessionID

	w := postJSON(t, r, base+"/answer", dto.SubmitAnswerRequest{Answer: "A complete final answer."})
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, base+"/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SessionSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 7.0, resp.OverallScore)
	assert.Equal(t, "Good", resp.PerformanceTier)
	require.Len(t, resp.Responses, 1)
	require.NotNil(t, resp.Responses[0].Evaluation)
	assert.Equal(t, "Good depth.", resp.Responses[0].Evaluation.Feedback)
}

func TestOpeningEndpoint(t *testing.T) {
	r := newTestRouter(&scriptedGateway{err: service.ErrGatewayUnavailable})
	created := createSession(t, r, 1)

	w := doGet(r, "/api/v1/interview/sessions/"+created.SessionID+"/opening")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.OpeningResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Opening, "Priya")
}
