package service

import (
	"context"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type BookService interface {
	GetAll(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo *repository.BookRepo
}

func NewBookService(repo *repository.BookRepo) BookService {
	return &bookService{repo: repo}
}

func (s *bookService) GetAll(ctx context.Context) ([]models.Book, error) {
	return s.repo.GetAll(ctx)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Create(ctx context.Context, book *models.Book) error {
	if strings.TrimSpace(book.Title) == "" {
		return apperrors.NewInvalidArgument("book title required")
	}
	book.Title = strings.TrimSpace(book.Title)
	return s.repo.Create(ctx, book)
}

func (s *bookService) Update(ctx context.Context, book *models.Book) error {
	if _, err := s.repo.GetByID(ctx, book.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, book)
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
