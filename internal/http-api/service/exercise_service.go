package service

import (
	"context"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

var validExerciseTypes = map[string]bool{
	models.ExerciseMultipleChoice: true,
	models.ExerciseFillBlank:      true,
	models.ExerciseListening:      true,
}

type ExerciseService interface {
	GetByChapter(ctx context.Context, chapterID int64) ([]models.Exercise, error)
	GetByID(ctx context.Context, id int64) (*models.Exercise, error)
	Create(ctx context.Context, exercise *models.Exercise) error
	Update(ctx context.Context, exercise *models.Exercise) error
	Delete(ctx context.Context, id int64) error
}

type exerciseService struct {
	repo        *repository.ExerciseRepo
	chapterRepo *repository.ChapterRepo
}

func NewExerciseService(repo *repository.ExerciseRepo, chapterRepo *repository.ChapterRepo) ExerciseService {
	return &exerciseService{repo: repo, chapterRepo: chapterRepo}
}

func (s *exerciseService) GetByChapter(ctx context.Context, chapterID int64) ([]models.Exercise, error) {
	return s.repo.GetByChapter(ctx, chapterID)
}

func (s *exerciseService) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *exerciseService) Create(ctx context.Context, exercise *models.Exercise) error {
	if strings.TrimSpace(exercise.Question) == "" {
		return apperrors.NewInvalidArgument("exercise question required")
	}
	if !validExerciseTypes[exercise.Type] {
		return apperrors.NewInvalidArgument("invalid exercise type: %q", exercise.Type)
	}
	if _, err := s.chapterRepo.GetByID(ctx, exercise.ChapterID); err != nil {
		return err
	}
	return s.repo.Create(ctx, exercise)
}

func (s *exerciseService) Update(ctx context.Context, exercise *models.Exercise) error {
	if _, err := s.repo.GetByID(ctx, exercise.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, exercise)
}

func (s *exerciseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
