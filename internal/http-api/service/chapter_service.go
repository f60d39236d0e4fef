package service

import (
	"context"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type ChapterService interface {
	GetByBook(ctx context.Context, bookID int64) ([]models.Chapter, error)
	GetByID(ctx context.Context, id int64) (*models.Chapter, error)
	Create(ctx context.Context, chapter *models.Chapter) error
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id int64) error
}

type chapterService struct {
	repo     *repository.ChapterRepo
	bookRepo *repository.BookRepo
}

func NewChapterService(repo *repository.ChapterRepo, bookRepo *repository.BookRepo) ChapterService {
	return &chapterService{repo: repo, bookRepo: bookRepo}
}

func (s *chapterService) GetByBook(ctx context.Context, bookID int64) ([]models.Chapter, error) {
	return s.repo.GetByBook(ctx, bookID)
}

func (s *chapterService) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *chapterService) Create(ctx context.Context, chapter *models.Chapter) error {
	if strings.TrimSpace(chapter.Title) == "" {
		return apperrors.NewInvalidArgument("chapter title required")
	}
	if _, err := s.bookRepo.GetByID(ctx, chapter.BookID); err != nil {
		return err
	}
	chapter.Title = strings.TrimSpace(chapter.Title)
	return s.repo.Create(ctx, chapter)
}

func (s *chapterService) Update(ctx context.Context, chapter *models.Chapter) error {
	if _, err := s.repo.GetByID(ctx, chapter.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, chapter)
}

func (s *chapterService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
