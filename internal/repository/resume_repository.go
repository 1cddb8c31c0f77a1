package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/intervu-ai/backend/internal/model"
)

type ResumeRepository interface {
	Create(record *model.ResumeRecord) error
	FindByID(id string) (*model.ResumeRecord, error)
	FindByUser(userID string, limit int) ([]model.ResumeRecord, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(record *model.ResumeRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	return r.db.Create(record).Error
}

func (r *resumeRepository) FindByID(id string) (*model.ResumeRecord, error) {
	var record model.ResumeRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *resumeRepository) FindByUser(userID string, limit int) ([]model.ResumeRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []model.ResumeRecord
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
