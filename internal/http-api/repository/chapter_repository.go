package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type ChapterRepo struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

func (r *ChapterRepo) GetByBook(ctx context.Context, bookID int64) ([]models.Chapter, error) {
	var list []models.Chapter
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("order_index asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get chapters by book: %w", err)
	}
	return list, nil
}

func (r *ChapterRepo) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).Preload("Book").First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Chapter", "id", id)
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return &chapter, nil
}

func (r *ChapterRepo) Create(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

func (r *ChapterRepo) Update(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Save(chapter).Error; err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	return nil
}

func (r *ChapterRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Chapter{}, id).Error; err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	return nil
}
