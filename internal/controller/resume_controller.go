package controller

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/internal/dto"
	"github.com/intervu-ai/backend/internal/service"
)

type ResumeController struct {
	resumes   service.ResumeService
	questions service.QuestionService
}

func NewResumeController(resumes service.ResumeService, questions service.QuestionService) *ResumeController {
	return &ResumeController{resumes: resumes, questions: questions}
}

// ParseResume godoc
// @Summary Parse an uploaded resume PDF
// @Description Extracts structured candidate data (name, skills, experience, projects) from a PDF resume.
// @Tags Resume
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume PDF, at most 10MB"
// @Success 200 {object} dto.ParseResumeResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 502 {object} dto.ErrorResponse "Resume parsing unavailable"
// @Router /resume/parse [post]
func (c *ResumeController) ParseResume(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file uploaded", Details: []string{err.Error()}})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Only PDF files are supported"})
		return
	}
	if fileHeader.Size > service.MaxResumeSizeBytes {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "File exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file", Details: []string{err.Error()}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file", Details: []string{err.Error()}})
		return
	}

	parsed, err := c.resumes.ParseResume(ctx.Request.Context(), data)
	if err != nil {
		log.Error().Err(err).Str("file_name", fileHeader.Filename).Msg("Resume parsing failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Resume parsing unavailable", Details: []string{err.Error()}})
		return
	}

	ctx.JSON(http.StatusOK, dto.ParseResumeResponse{
		Success:  true,
		Data:     parsed,
		Filename: fileHeader.Filename,
	})
}

// GenerateQuestions godoc
// @Summary Generate interview questions from parsed resume data
// @Description Produces a structured question sequence (introduction, resume based, role based, behavioral). Falls back to a deterministic set when generation is unavailable.
// @Tags Resume
// @Accept json
// @Produce json
// @Param question_data body dto.GenerateQuestionsRequest true "Parsed resume data and job context"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /resume/questions [post]
func (c *ResumeController) GenerateQuestions(ctx *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questions := c.questions.GenerateQuestions(ctx.Request.Context(), req.ResumeData, req.JobContext, req.NumQuestions)

	out := make([]dto.QuestionDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionDTO(q))
	}
	ctx.JSON(http.StatusOK, dto.GenerateQuestionsResponse{
		Total:     len(out),
		Questions: out,
	})
}
