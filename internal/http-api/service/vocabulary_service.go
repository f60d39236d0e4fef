package service

import (
	"context"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type VocabularyService interface {
	GetByChapter(ctx context.Context, chapterID int64) ([]models.Vocabulary, error)
	GetByID(ctx context.Context, id int64) (*models.Vocabulary, error)
	Create(ctx context.Context, vocab *models.Vocabulary) error
	Update(ctx context.Context, vocab *models.Vocabulary) error
	Delete(ctx context.Context, id int64) error
}

type vocabularyService struct {
	repo        *repository.VocabularyRepo
	chapterRepo *repository.ChapterRepo
}

func NewVocabularyService(repo *repository.VocabularyRepo, chapterRepo *repository.ChapterRepo) VocabularyService {
	return &vocabularyService{repo: repo, chapterRepo: chapterRepo}
}

func (s *vocabularyService) GetByChapter(ctx context.Context, chapterID int64) ([]models.Vocabulary, error) {
	return s.repo.GetByChapter(ctx, chapterID)
}

func (s *vocabularyService) GetByID(ctx context.Context, id int64) (*models.Vocabulary, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *vocabularyService) Create(ctx context.Context, vocab *models.Vocabulary) error {
	if strings.TrimSpace(vocab.Word) == "" || strings.TrimSpace(vocab.Meaning) == "" {
		return apperrors.NewInvalidArgument("vocabulary word and meaning required")
	}
	if _, err := s.chapterRepo.GetByID(ctx, vocab.ChapterID); err != nil {
		return err
	}
	return s.repo.Create(ctx, vocab)
}

func (s *vocabularyService) Update(ctx context.Context, vocab *models.Vocabulary) error {
	if _, err := s.repo.GetByID(ctx, vocab.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, vocab)
}

func (s *vocabularyService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
