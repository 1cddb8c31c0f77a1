package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/intervu-ai/backend/internal/model"
)

type ProfileRepository interface {
	Upsert(profile *model.UserProfile) error
	FindByUser(userID string) (*model.UserProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(profile *model.UserProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}

func (r *profileRepository) FindByUser(userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
