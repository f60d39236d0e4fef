package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type EnrollmentRepo struct {
	db *gorm.DB
}

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

func (r *EnrollmentRepo) GetByAppUser(ctx context.Context, appUserID int64) ([]models.Enrollment, error) {
	var list []models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("app_user_id = ?", appUserID).
		Preload("Book").
		Order("enrolled_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get enrollments: %w", err)
	}
	return list, nil
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Book").First(&enrollment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Enrollment", "id", id)
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *EnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create enrollment: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Enrollment{}, id).Error; err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
