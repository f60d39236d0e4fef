package service

import (
	"context"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type GrammarService interface {
	GetByChapter(ctx context.Context, chapterID int64) ([]models.Grammar, error)
	GetByID(ctx context.Context, id int64) (*models.Grammar, error)
	Create(ctx context.Context, grammar *models.Grammar) error
	Update(ctx context.Context, grammar *models.Grammar) error
	Delete(ctx context.Context, id int64) error
}

type grammarService struct {
	repo        *repository.GrammarRepo
	chapterRepo *repository.ChapterRepo
}

func NewGrammarService(repo *repository.GrammarRepo, chapterRepo *repository.ChapterRepo) GrammarService {
	return &grammarService{repo: repo, chapterRepo: chapterRepo}
}

func (s *grammarService) GetByChapter(ctx context.Context, chapterID int64) ([]models.Grammar, error) {
	return s.repo.GetByChapter(ctx, chapterID)
}

func (s *grammarService) GetByID(ctx context.Context, id int64) (*models.Grammar, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *grammarService) Create(ctx context.Context, grammar *models.Grammar) error {
	if strings.TrimSpace(grammar.Title) == "" || strings.TrimSpace(grammar.Content) == "" {
		return apperrors.NewInvalidArgument("grammar title and content required")
	}
	if _, err := s.chapterRepo.GetByID(ctx, grammar.ChapterID); err != nil {
		return err
	}
	return s.repo.Create(ctx, grammar)
}

func (s *grammarService) Update(ctx context.Context, grammar *models.Grammar) error {
	if _, err := s.repo.GetByID(ctx, grammar.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, grammar)
}

func (s *grammarService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
