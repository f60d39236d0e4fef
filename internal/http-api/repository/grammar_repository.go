package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type GrammarRepo struct {
	db *gorm.DB
}

func NewGrammarRepo(db *gorm.DB) *GrammarRepo {
	return &GrammarRepo{db: db}
}

func (r *GrammarRepo) GetByChapter(ctx context.Context, chapterID int64) ([]models.Grammar, error) {
	var list []models.Grammar
	if err := r.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("id asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get grammars by chapter: %w", err)
	}
	return list, nil
}

func (r *GrammarRepo) GetByID(ctx context.Context, id int64) (*models.Grammar, error) {
	var grammar models.Grammar
	if err := r.db.WithContext(ctx).First(&grammar, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Grammar", "id", id)
		}
		return nil, fmt.Errorf("get grammar: %w", err)
	}
	return &grammar, nil
}

func (r *GrammarRepo) Create(ctx context.Context, grammar *models.Grammar) error {
	if err := r.db.WithContext(ctx).Create(grammar).Error; err != nil {
		return fmt.Errorf("create grammar: %w", err)
	}
	return nil
}

func (r *GrammarRepo) Update(ctx context.Context, grammar *models.Grammar) error {
	if err := r.db.WithContext(ctx).Save(grammar).Error; err != nil {
		return fmt.Errorf("update grammar: %w", err)
	}
	return nil
}

func (r *GrammarRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Grammar{}, id).Error; err != nil {
		return fmt.Errorf("delete grammar: %w", err)
	}
	return nil
}
