package repository

import (
	"mock_interview_backend/internal/model"

	"gorm.io/gorm"
)

type InterviewRepository struct {
	DB *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{DB: db}
}

func (r *InterviewRepository) Create(result *model.InterviewResult) error {
	return r.DB.Create(result).Error
}

// FindByUser 按时间倒序返回该用户的全部面试记录
func (r *InterviewRepository) FindByUser(userID uint) ([]model.InterviewResult, error) {
	var results []model.InterviewResult
	err := r.DB.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&results).Error
	return results, err
}
