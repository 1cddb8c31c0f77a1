package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/intervu-ai/backend/internal/dto"
	"github.com/intervu-ai/backend/internal/middleware"
	"github.com/intervu-ai/backend/internal/model"
	"github.com/intervu-ai/backend/internal/repository"
)

const defaultHistoryLimit = 20

// RecordsController serves the authenticated account surface: profile,
// saved resumes, finished interviews, and aggregate statistics.
type RecordsController struct {
	profiles   repository.ProfileRepository
	resumes    repository.ResumeRepository
	interviews repository.InterviewRepository
	statistics repository.StatisticsRepository
}

func NewRecordsController(profiles repository.ProfileRepository, resumes repository.ResumeRepository, interviews repository.InterviewRepository, statistics repository.StatisticsRepository) *RecordsController {
	return &RecordsController{
		profiles:   profiles,
		resumes:    resumes,
		interviews: interviews,
		statistics: statistics,
	}
}

// UpsertProfile godoc
// @Summary Create or update the caller's profile
// @Tags Account
// @Accept json
// @Produce json
// @Param profile_data body dto.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} model.UserProfile
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Security BearerAuth
// @Router /account/profile [put]
func (c *RecordsController) UpsertProfile(ctx *gin.Context) {
	var req dto.UpsertProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	profile := &model.UserProfile{
		UserID:      middleware.UserID(ctx),
		Email:       req.Email,
		DisplayName: req.DisplayName,
		TargetRole:  req.TargetRole,
	}
	if err := c.profiles.Upsert(profile); err != nil {
		log.Error().Err(err).Str("user_id", profile.UserID).Msg("Failed to upsert profile")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save profile"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Account
// @Produce json
// @Success 200 {object} model.UserProfile
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Security BearerAuth
// @Router /account/profile [get]
func (c *RecordsController) GetProfile(ctx *gin.Context) {
	profile, err := c.profiles.FindByUser(middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Profile not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load profile"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// CreateResumeRecord godoc
// @Summary Save parsed resume data for reuse across sessions
// @Tags Account
// @Accept json
// @Produce json
// @Param resume_data body dto.CreateResumeRecordRequest true "File name and parsed data"
// @Success 201 {object} model.ResumeRecord
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Security BearerAuth
// @Router /account/resumes [post]
func (c *RecordsController) CreateResumeRecord(ctx *gin.Context) {
	var req dto.CreateResumeRecordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	record := &model.ResumeRecord{
		ID:         uuid.NewString(),
		UserID:     middleware.UserID(ctx),
		FileName:   req.FileName,
		ParsedData: req.ParsedData,
	}
	if err := c.resumes.Create(record); err != nil {
		log.Error().Err(err).Str("user_id", record.UserID).Msg("Failed to save resume record")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save resume"})
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

// ListResumeRecords godoc
// @Summary List the caller's saved resumes
// @Tags Account
// @Produce json
// @Param limit query int false "Maximum records to return" default(20)
// @Success 200 {array} model.ResumeRecord
// @Security BearerAuth
// @Router /account/resumes [get]
func (c *RecordsController) ListResumeRecords(ctx *gin.Context) {
	records, err := c.resumes.FindByUser(middleware.UserID(ctx), limitParam(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load resumes"})
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// ListInterviews godoc
// @Summary List the caller's finished interviews
// @Tags Account
// @Produce json
// @Param limit query int false "Maximum records to return" default(20)
// @Success 200 {array} model.InterviewRecord
// @Security BearerAuth
// @Router /account/interviews [get]
func (c *RecordsController) ListInterviews(ctx *gin.Context) {
	records, err := c.interviews.FindByUser(middleware.UserID(ctx), limitParam(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load interviews"})
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetInterview godoc
// @Summary Get a finished interview with its answers
// @Tags Account
// @Produce json
// @Param interview_id path string true "Interview record ID"
// @Success 200 {object} model.InterviewRecord
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Security BearerAuth
// @Router /account/interviews/{interview_id} [get]
func (c *RecordsController) GetInterview(ctx *gin.Context) {
	record, err := c.interviews.FindByIDWithAnswers(ctx.Param("interview_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load interview"})
		return
	}
	// Records belong to their owner. A foreign ID reads as absent.
	if record.UserID != middleware.UserID(ctx) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// GetStatistics godoc
// @Summary Get the caller's aggregate interview statistics
// @Tags Account
// @Produce json
// @Success 200 {object} model.UserStatistics
// @Security BearerAuth
// @Router /account/statistics [get]
func (c *RecordsController) GetStatistics(ctx *gin.Context) {
	stats, err := c.statistics.FindByUser(middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A user with no finished interviews has an empty row, not an error.
			ctx.JSON(http.StatusOK, model.UserStatistics{UserID: middleware.UserID(ctx)})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load statistics"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// GetDashboard godoc
// @Summary Get the dashboard bundle: profile, statistics, recent interviews
// @Tags Account
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /account/dashboard [get]
func (c *RecordsController) GetDashboard(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	var resp dto.DashboardResponse

	g, _ := errgroup.WithContext(ctx.Request.Context())
	g.Go(func() error {
		profile, err := c.profiles.FindByUser(userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		resp.Profile = profile
		return nil
	})
	g.Go(func() error {
		stats, err := c.statistics.FindByUser(userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		resp.Statistics = stats
		return nil
	})
	g.Go(func() error {
		records, err := c.interviews.FindByUser(userID, 5)
		if err != nil {
			return err
		}
		resp.RecentSessions = records
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to build dashboard")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load dashboard"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func limitParam(ctx *gin.Context) int {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}
	return limit
}
