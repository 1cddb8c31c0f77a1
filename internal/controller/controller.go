package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/intervu-ai/backend/internal/dto"
	"github.com/intervu-ai/backend/internal/model"
	"github.com/intervu-ai/backend/internal/store"
)

// respondSessionError maps core error taxonomy onto HTTP statuses: a missing
// session is distinguishable from a session in the wrong state.
func respondSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
	case errors.Is(err, model.ErrInvalidState), errors.Is(err, model.ErrSessionTerminal):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, model.ErrNoMoreQuestions):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}

func toQuestionDTO(q model.Question) dto.QuestionDTO {
	return dto.QuestionDTO{
		ID:                      q.ID,
		Question:                q.Question,
		Category:                string(q.Category),
		Difficulty:              q.Difficulty,
		FocusArea:               q.FocusArea,
		FollowUp:                q.FollowUp,
		ExpectedDurationSeconds: q.ExpectedDurationSeconds,
	}
}

func toQuestionViewDTO(view *model.QuestionView) *dto.QuestionViewDTO {
	if view == nil {
		return nil
	}
	return &dto.QuestionViewDTO{
		QuestionDTO:    toQuestionDTO(view.Question),
		QuestionNumber: view.QuestionNumber,
		TotalQuestions: view.TotalQuestions,
		SessionID:      view.SessionID,
	}
}

func fromQuestionDTOs(in []dto.QuestionDTO) []model.Question {
	questions := make([]model.Question, 0, len(in))
	for _, q := range in {
		questions = append(questions, model.Question{
			ID:                      q.ID,
			Question:                q.Question,
			Category:                model.Category(q.Category),
			Difficulty:              q.Difficulty,
			FocusArea:               q.FocusArea,
			FollowUp:                q.FollowUp,
			ExpectedDurationSeconds: q.ExpectedDurationSeconds,
		})
	}
	return questions
}

func toResponseDTOs(responses []model.Response) []dto.ResponseDTO {
	out := make([]dto.ResponseDTO, 0, len(responses))
	for _, r := range responses {
		var item dto.ResponseDTO
		copier.Copy(&item, &r)
		out = append(out, item)
	}
	return out
}
