package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

func (r *BookRepo) GetAll(ctx context.Context) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).Order("title asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books: %w", err)
	}
	return list, nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Book", "id", id)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

func (r *BookRepo) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *BookRepo) Update(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
