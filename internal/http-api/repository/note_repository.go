package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type NoteRepo struct {
	db *gorm.DB
}

func NewNoteRepo(db *gorm.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) GetByAppUserAndUnit(ctx context.Context, appUserID, unitID int64) ([]models.Note, error) {
	var list []models.Note
	if err := r.db.WithContext(ctx).
		Where("app_user_id = ? AND unit_id = ?", appUserID, unitID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get notes by unit: %w", err)
	}
	return list, nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Note", "id", id)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

func (r *NoteRepo) Create(ctx context.Context, note *models.Note) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepo) Update(ctx context.Context, note *models.Note) error {
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Note{}, id).Error; err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
