package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type VocabularyRepo struct {
	db *gorm.DB
}

func NewVocabularyRepo(db *gorm.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

func (r *VocabularyRepo) GetByChapter(ctx context.Context, chapterID int64) ([]models.Vocabulary, error) {
	var list []models.Vocabulary
	if err := r.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("word asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get vocabularies by chapter: %w", err)
	}
	return list, nil
}

func (r *VocabularyRepo) GetByID(ctx context.Context, id int64) (*models.Vocabulary, error) {
	var vocab models.Vocabulary
	if err := r.db.WithContext(ctx).First(&vocab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Vocabulary", "id", id)
		}
		return nil, fmt.Errorf("get vocabulary: %w", err)
	}
	return &vocab, nil
}

func (r *VocabularyRepo) Create(ctx context.Context, vocab *models.Vocabulary) error {
	if err := r.db.WithContext(ctx).Create(vocab).Error; err != nil {
		return fmt.Errorf("create vocabulary: %w", err)
	}
	return nil
}

func (r *VocabularyRepo) Update(ctx context.Context, vocab *models.Vocabulary) error {
	if err := r.db.WithContext(ctx).Save(vocab).Error; err != nil {
		return fmt.Errorf("update vocabulary: %w", err)
	}
	return nil
}

func (r *VocabularyRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Vocabulary{}, id).Error; err != nil {
		return fmt.Errorf("delete vocabulary: %w", err)
	}
	return nil
}
