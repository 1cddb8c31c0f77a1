package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/intervu-ai/backend/internal/model"
)

type InterviewRepository interface {
	Create(record *model.InterviewRecord) error
	CreateAnswers(answers []model.AnswerRecord) error
	FindByID(id string) (*model.InterviewRecord, error)
	FindByIDWithAnswers(id string) (*model.InterviewRecord, error)
	FindByUser(userID string, limit int) ([]model.InterviewRecord, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(record *model.InterviewRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	return r.db.Create(record).Error
}

func (r *interviewRepository) CreateAnswers(answers []model.AnswerRecord) error {
	if len(answers) == 0 {
		return nil
	}
	for i := range answers {
		if answers[i].ID == "" {
			answers[i].ID = uuid.NewString()
		}
	}
	return r.db.Create(&answers).Error
}

func (r *interviewRepository) FindByID(id string) (*model.InterviewRecord, error) {
	var record model.InterviewRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *interviewRepository) FindByIDWithAnswers(id string) (*model.InterviewRecord, error) {
	var record model.InterviewRecord
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_records.question_id ASC")
		}).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *interviewRepository) FindByUser(userID string, limit int) ([]model.InterviewRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []model.InterviewRecord
	err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
