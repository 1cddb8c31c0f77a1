package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/intervu-ai/backend/config"
	"github.com/intervu-ai/backend/database"
	_ "github.com/intervu-ai/backend/docs" // Swagger docs - auto-generated
	"github.com/intervu-ai/backend/internal/controller"
	"github.com/intervu-ai/backend/internal/logger"
	"github.com/intervu-ai/backend/internal/middleware"
	"github.com/intervu-ai/backend/internal/model"
	"github.com/intervu-ai/backend/internal/repository"
	"github.com/intervu-ai/backend/internal/service"
	"github.com/intervu-ai/backend/internal/store"
)

// @title Intervu AI Backend API
// @version 1.0
// @description Resume-driven mock interview API with conversational question flow and answer evaluation.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewSessionStore,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewResumeRepository,
			repository.NewInterviewRepository,
			repository.NewStatisticsRepository,
			repository.NewProfileRepository,
		),

		fx.Provide(
			service.NewGeminiGateway,
			service.NewQuestionService,
			service.NewEvaluatorService,
			service.NewInterviewerService,
			service.NewResumeService,
			service.NewInterviewService,
		),

		fx.Provide(
			controller.NewInterviewController,
			controller.NewResumeController,
			controller.NewRecordsController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartSessionSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewSessionStore(cfg *config.Config) *store.SessionStore {
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	sweep := time.Duration(cfg.Session.SweepIntervalSec) * time.Second
	return store.NewSessionStore(ttl, sweep)
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	interviewCtrl *controller.InterviewController,
	resumeCtrl *controller.ResumeController,
	recordsCtrl *controller.RecordsController,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// Interview and resume routes work without an account; a bearer token
	// attributes the session to its owner when present.
	open := api.Group("")
	open.Use(middleware.OptionalUser(cfg))
	{
		open.POST("/resume/parse", resumeCtrl.ParseResume)
		open.POST("/resume/questions", resumeCtrl.GenerateQuestions)

		sessions := open.Group("/interview/sessions")
		sessions.POST("", interviewCtrl.CreateSession)
		sessions.GET("/:session_id", interviewCtrl.GetSession)
		sessions.POST("/:session_id/answer", interviewCtrl.SubmitAnswer)
		sessions.POST("/:session_id/respond", interviewCtrl.ConversationalAnswer)
		sessions.POST("/:session_id/skip", interviewCtrl.SkipQuestion)
		sessions.POST("/:session_id/abandon", interviewCtrl.AbandonSession)
		sessions.GET("/:session_id/summary", interviewCtrl.GetSummary)
		sessions.GET("/:session_id/opening", interviewCtrl.GetOpening)
	}

	account := api.Group("/account")
	account.Use(middleware.RequireUser(cfg))
	{
		account.PUT("/profile", recordsCtrl.UpsertProfile)
		account.GET("/profile", recordsCtrl.GetProfile)
		account.POST("/resumes", recordsCtrl.CreateResumeRecord)
		account.GET("/resumes", recordsCtrl.ListResumeRecords)
		account.GET("/interviews", recordsCtrl.ListInterviews)
		account.GET("/interviews/:interview_id", recordsCtrl.GetInterview)
		account.GET("/statistics", recordsCtrl.GetStatistics)
		account.GET("/dashboard", recordsCtrl.GetDashboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Interview API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartSessionSweeper runs the in-memory store's expiry loop for the
// application lifetime.
func StartSessionSweeper(lc fx.Lifecycle, sessions *store.SessionStore) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sessions.StartSweeper(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.ResumeRecord{},
		&model.InterviewRecord{},
		&model.AnswerRecord{},
		&model.UserStatistics{},
		&model.UserProfile{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
