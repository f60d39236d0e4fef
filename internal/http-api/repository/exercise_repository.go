package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type ExerciseRepo struct {
	db *gorm.DB
}

func NewExerciseRepo(db *gorm.DB) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

func (r *ExerciseRepo) GetByChapter(ctx context.Context, chapterID int64) ([]models.Exercise, error) {
	var list []models.Exercise
	if err := r.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Preload("Options").
		Order("id asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get exercises by chapter: %w", err)
	}
	return list, nil
}

func (r *ExerciseRepo) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := r.db.WithContext(ctx).Preload("Options").First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Exercise", "id", id)
		}
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return &exercise, nil
}

// Create persists the exercise together with its options in one transaction.
func (r *ExerciseRepo) Create(ctx context.Context, exercise *models.Exercise) error {
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

func (r *ExerciseRepo) Update(ctx context.Context, exercise *models.Exercise) error {
	if err := r.db.WithContext(ctx).Save(exercise).Error; err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	return nil
}

func (r *ExerciseRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", id).Delete(&models.ExerciseOption{}).Error; err != nil {
			return fmt.Errorf("delete exercise options: %w", err)
		}
		if err := tx.Delete(&models.Exercise{}, id).Error; err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		return nil
	})
}
