package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/internal/dto"
	"github.com/intervu-ai/backend/internal/middleware"
	"github.com/intervu-ai/backend/internal/service"
)

type InterviewController struct {
	interviews service.InterviewService
}

func NewInterviewController(interviews service.InterviewService) *InterviewController {
	return &InterviewController{interviews: interviews}
}

// CreateSession godoc
// @Summary Start an interview session
// @Description Creates a session seeded with a fixed question sequence. When no questions are supplied, a set is generated from the resume data.
// @Tags Interview
// @Accept json
// @Produce json
// @Param session_data body dto.CreateSessionRequest true "Resume data, job context and optional questions"
// @Success 201 {object} dto.CreateSessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /interview/sessions [post]
func (c *InterviewController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = middleware.UserID(ctx)
	}

	session, first := c.interviews.CreateSession(ctx.Request.Context(), userID, req.ResumeData, fromQuestionDTOs(req.Questions), req.JobContext, req.Metadata, req.NumQuestions)

	_, total := session.Progress()
	ctx.JSON(http.StatusCreated, dto.CreateSessionResponse{
		SessionID:      session.ID(),
		TotalQuestions: total,
		FirstQuestion:  toQuestionViewDTO(first),
	})
}

// GetSession godoc
// @Summary Get session state
// @Description Returns the session status, the question at the pointer, and progress.
// @Tags Interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /interview/sessions/{session_id} [get]
func (c *InterviewController) GetSession(ctx *gin.Context) {
	session, err := c.interviews.GetSession(ctx.Param("session_id"))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}

	resp := dto.SessionStateResponse{
		SessionID: session.ID(),
		Status:    string(session.Status()),
	}
	if view, ok := session.CurrentQuestion(); ok {
		resp.CurrentQuestion = toQuestionViewDTO(&view)
	}
	resp.Progress.Current, resp.Progress.Total = session.Progress()
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer for the current question
// @Description Evaluates the answer, records it, and advances the session. The response carries either the next question or completion statistics.
// @Tags Interview
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer_data body dto.SubmitAnswerRequest true "Answer text and optional time taken"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /interview/sessions/{session_id}/answer [post]
func (c *InterviewController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	outcome, err := c.interviews.SubmitAnswer(ctx.Request.Context(), ctx.Param("session_id"), req.Answer, req.TimeTakenSeconds)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}

	var eval dto.EvaluationDTO
	copier.Copy(&eval, &outcome.Evaluation)

	resp := dto.SubmitAnswerResponse{
		Evaluation: eval,
		Outcome: dto.TurnOutcomeDTO{
			Status:         "success",
			Message:        "Answer recorded",
			TotalQuestions: outcome.Result.TotalQuestions,
			Answered:       outcome.Result.Answered,
			Skipped:        outcome.Result.Skipped,
			NextQuestion:   toQuestionViewDTO(outcome.Result.NextQuestion),
		},
	}
	if outcome.Result.Completed {
		resp.Outcome.Status = "completed"
		resp.Outcome.Message = "Interview completed successfully!"
	}
	ctx.JSON(http.StatusOK, resp)
}

// SkipQuestion godoc
// @Summary Skip the current question
// @Tags Interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.TurnOutcomeDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /interview/sessions/{session_id}/skip [post]
func (c *InterviewController) SkipQuestion(ctx *gin.Context) {
	result, err := c.interviews.SkipQuestion(ctx.Request.Context(), ctx.Param("session_id"))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}

	resp := dto.TurnOutcomeDTO{
		Status:         "skipped",
		Message:        "Question skipped",
		TotalQuestions: result.TotalQuestions,
		Answered:       result.Answered,
		Skipped:        result.Skipped,
		NextQuestion:   toQuestionViewDTO(result.NextQuestion),
	}
	if result.Completed {
		resp.Status = "completed"
		resp.Message = "Interview completed!"
	}
	ctx.JSON(http.StatusOK, resp)
}

// ConversationalAnswer godoc
// @Summary Submit an answer and get a conversational interviewer reply
// @Description Records the answer and returns a short natural-language acknowledgment plus the next question or a closing line.
// @Tags Interview
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer_data body dto.SubmitAnswerRequest true "Answer text and optional time taken"
// @Success 200 {object} dto.ConversationalAnswerResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /interview/sessions/{session_id}/respond [post]
func (c *InterviewController) ConversationalAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	outcome, err := c.interviews.ConversationalAnswer(ctx.Request.Context(), ctx.Param("session_id"), req.Answer, req.TimeTakenSeconds)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ConversationalAnswerResponse{
		InterviewerResponse: outcome.InterviewerResponse,
		Completed:           outcome.Completed,
		NextQuestion:        toQuestionViewDTO(outcome.NextQuestion),
		ClosingLine:         outcome.ClosingLine,
	})
}

// AbandonSession godoc
// @Summary Abandon an in-progress session
// @Tags Interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 204 "Session abandoned"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already terminal"
// @Router /interview/sessions/{session_id}/abandon [post]
func (c *InterviewController) AbandonSession(ctx *gin.Context) {
	if err := c.interviews.AbandonSession(ctx.Param("session_id")); err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetSummary godoc
// @Summary Get the session summary with the aggregate assessment
// @Tags Interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionSummaryResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /interview/sessions/{session_id}/summary [get]
func (c *InterviewController) GetSummary(ctx *gin.Context) {
	outcome, err := c.interviews.SessionSummary(ctx.Param("session_id"))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}

	var resp dto.SessionSummaryResponse
	if err := copier.Copy(&resp, &outcome.Summary); err != nil {
		log.Error().Err(err).Msg("Failed to copy session summary to response")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error preparing summary response"})
		return
	}
	resp.Status = string(outcome.Summary.Status)
	resp.Responses = toResponseDTOs(outcome.Summary.Responses)
	resp.OverallScore = outcome.Assessment.OverallScore
	resp.PerformanceTier = outcome.Assessment.PerformanceTier
	resp.OverallFeedback = outcome.Assessment.Feedback
	ctx.JSON(http.StatusOK, resp)
}

// GetOpening godoc
// @Summary Get the personalized opening interviewer line
// @Tags Interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.OpeningResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /interview/sessions/{session_id}/opening [get]
func (c *InterviewController) GetOpening(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	opening, err := c.interviews.OpeningLine(ctx.Request.Context(), sessionID)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OpeningResponse{SessionID: sessionID, Opening: opening})
}
