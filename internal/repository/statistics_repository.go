package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/intervu-ai/backend/internal/model"
)

type StatisticsRepository interface {
	// RecomputeForUser rebuilds the statistics row from the interview
	// records and upserts it.
	RecomputeForUser(userID string) (*model.UserStatistics, error)
	FindByUser(userID string) (*model.UserStatistics, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) RecomputeForUser(userID string) (*model.UserStatistics, error) {
	var agg struct {
		TotalSessions     int
		CompletedSessions int
		QuestionsAnswered int
		QuestionsSkipped  int
		AverageScore      *float64
		BestScore         *float64
	}

	err := r.db.Model(&model.InterviewRecord{}).
		Select("COUNT(*) as total_sessions, "+
			"COUNT(*) FILTER (WHERE status = 'completed') as completed_sessions, "+
			"COALESCE(SUM(answered_count), 0) as questions_answered, "+
			"COALESCE(SUM(skipped_count), 0) as questions_skipped, "+
			"AVG(overall_score) as average_score, "+
			"MAX(overall_score) as best_score").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	stats := &model.UserStatistics{
		UserID:            userID,
		TotalSessions:     agg.TotalSessions,
		CompletedSessions: agg.CompletedSessions,
		QuestionsAnswered: agg.QuestionsAnswered,
		QuestionsSkipped:  agg.QuestionsSkipped,
		UpdatedAt:         time.Now().UTC(),
	}
	if agg.AverageScore != nil {
		stats.AverageScore = *agg.AverageScore
	}
	if agg.BestScore != nil {
		stats.BestScore = *agg.BestScore
	}

	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statisticsRepository) FindByUser(userID string) (*model.UserStatistics, error) {
	var stats model.UserStatistics
	if err := r.db.First(&stats, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
