package model

import (
	"time"

	"gorm.io/gorm"
)

// Persistent rows republished after a session reaches a terminal state. The
// live session core never touches these directly; repositories own them.

type ResumeRecord struct {
	ID         string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     string         `json:"user_id" gorm:"not null;index"`
	FileName   string         `json:"file_name"`
	ParsedData map[string]any `json:"parsed_data" gorm:"serializer:json"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type InterviewRecord struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          string         `json:"user_id" gorm:"not null;index"`
	ResumeID        *string        `json:"resume_id,omitempty" gorm:"type:uuid;index"`
	Status          string         `json:"status" gorm:"not null"`
	JobContext      map[string]any `json:"job_context" gorm:"serializer:json"`
	TotalQuestions  int            `json:"total_questions"`
	AnsweredCount   int            `json:"answered_count"`
	SkippedCount    int            `json:"skipped_count"`
	OverallScore    *float64       `json:"overall_score,omitempty"`
	PerformanceTier string         `json:"performance_tier,omitempty"`
	DurationSeconds int            `json:"duration_seconds"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         *time.Time     `json:"ended_at,omitempty"`
	Answers         []AnswerRecord `json:"answers,omitempty" gorm:"foreignKey:InterviewRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

type AnswerRecord struct {
	ID                string         `json:"id" gorm:"type:uuid;primaryKey"`
	InterviewRecordID string         `json:"interview_record_id" gorm:"type:uuid;not null;index"`
	QuestionID        int            `json:"question_id" gorm:"not null"`
	QuestionText      string         `json:"question_text" gorm:"type:text;not null"`
	AnswerText        string         `json:"answer_text" gorm:"type:text"`
	Skipped           bool           `json:"skipped"`
	TimeTakenSeconds  *int           `json:"time_taken_seconds,omitempty"`
	Feedback          string         `json:"feedback,omitempty" gorm:"type:text"`
	Score             *int           `json:"score,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

type UserStatistics struct {
	UserID            string         `json:"user_id" gorm:"primaryKey"`
	TotalSessions     int            `json:"total_sessions"`
	CompletedSessions int            `json:"completed_sessions"`
	QuestionsAnswered int            `json:"questions_answered"`
	QuestionsSkipped  int            `json:"questions_skipped"`
	AverageScore      float64        `json:"average_score"`
	BestScore         float64        `json:"best_score"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

type UserProfile struct {
	UserID      string         `json:"user_id" gorm:"primaryKey"`
	Email       string         `json:"email" gorm:"index"`
	DisplayName string         `json:"display_name"`
	TargetRole  string         `json:"target_role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
