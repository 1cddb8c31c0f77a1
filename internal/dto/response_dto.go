package dto

import (
	"time"

	"github.com/intervu-ai/backend/internal/model"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type QuestionDTO struct {
	ID                      int    `json:"id"`
	Question                string `json:"question" binding:"required"`
	Category                string `json:"category"`
	Difficulty              string `json:"difficulty"`
	FocusArea               string `json:"focus_area"`
	FollowUp                bool   `json:"follow_up"`
	ExpectedDurationSeconds int    `json:"expected_duration_seconds"`
}

// QuestionViewDTO is a question annotated with its position in the session.
type QuestionViewDTO struct {
	QuestionDTO
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	SessionID      string `json:"session_id"`
}

type GenerateQuestionsResponse struct {
	Questions []QuestionDTO `json:"questions"`
	Total     int           `json:"total"`
}

type ParseResumeResponse struct {
	Success  bool           `json:"success"`
	Data     map[string]any `json:"data"`
	Filename string         `json:"filename"`
}

type CreateSessionResponse struct {
	SessionID      string           `json:"session_id"`
	TotalQuestions int              `json:"total_questions"`
	FirstQuestion  *QuestionViewDTO `json:"first_question,omitempty"`
}

type ProgressDTO struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type SessionStateResponse struct {
	SessionID       string           `json:"session_id"`
	Status          string           `json:"status"`
	CurrentQuestion *QuestionViewDTO `json:"current_question,omitempty"`
	Progress        ProgressDTO      `json:"progress"`
}

// / TurnOutcomeDTO reports the result of a submit or skip: either the next
// question, or completion statistics.
type TurnOutcomeDTO struct {
	Status         string           `json:"status"`
	Message        string           `json:"message"`
	TotalQuestions int              `json:"total_questions"`
	Answered       int              `json:"answered"`
	Skipped        int              `json:"skipped"`
	NextQuestion   *QuestionViewDTO `json:"next_question,omitempty"`
}

type EvaluationDTO struct {
	Feedback         string  `json:"feedback"`
	Score            int     `json:"score"`
	FollowUpQuestion *string `json:"follow_up_question,omitempty"`
}

type SubmitAnswerResponse struct {
	Evaluation EvaluationDTO  `json:"evaluation"`
	Outcome    TurnOutcomeDTO `json:"outcome"`
}

type ConversationalAnswerResponse struct {
	InterviewerResponse string           `json:"interviewer_response"`
	Completed           bool             `json:"completed"`
	NextQuestion        *QuestionViewDTO `json:"next_question,omitempty"`
	ClosingLine         string           `json:"closing_line,omitempty"`
}

type ResponseDTO struct {
	QuestionID       int            `json:"question_id"`
	QuestionText     string         `json:"question_text"`
	AnswerText       string         `json:"answer_text"`
	Skipped          bool           `json:"skipped"`
	TimeTakenSeconds *int           `json:"time_taken_seconds"`
	Timestamp        time.Time      `json:"timestamp"`
	Evaluation       *EvaluationDTO `json:"evaluation,omitempty"`
}

type SessionSummaryResponse struct {
	SessionID         string         `json:"session_id"`
	UserID            string         `json:"user_id"`
	Status            string         `json:"status"`
	JobContext        map[string]any `json:"job_context"`
	TotalQuestions    int            `json:"total_questions"`
	QuestionsAnswered int            `json:"questions_answered"`
	AnsweredCount     int            `json:"answered_count"`
	SkippedCount      int            `json:"skipped_count"`
	StartTime         time.Time      `json:"start_time"`
	EndTime           *time.Time     `json:"end_time"`
	DurationSeconds   int            `json:"duration_seconds"`
	Responses         []ResponseDTO  `json:"responses"`
	OverallScore      float64        `json:"overall_score"`
	PerformanceTier   string         `json:"performance_tier"`
	OverallFeedback   string         `json:"overall_feedback"`
}

type OpeningResponse struct {
	SessionID string `json:"session_id"`
	Opening   string `json:"opening"`
}

type DashboardResponse struct {
	Profile        *model.UserProfile      `json:"profile"`
	Statistics     *model.UserStatistics   `json:"statistics"`
	RecentSessions []model.InterviewRecord `json:"recent_sessions"`
}
