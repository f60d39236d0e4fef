package service

import (
	"context"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type UnitService interface {
	GetByBook(ctx context.Context, bookID int64) ([]models.Unit, error)
	GetByID(ctx context.Context, id int64) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id int64) error
}

type unitService struct {
	repo     *repository.UnitRepo
	bookRepo *repository.BookRepo
}

func NewUnitService(repo *repository.UnitRepo, bookRepo *repository.BookRepo) UnitService {
	return &unitService{repo: repo, bookRepo: bookRepo}
}

func (s *unitService) GetByBook(ctx context.Context, bookID int64) ([]models.Unit, error) {
	return s.repo.GetByBook(ctx, bookID)
}

func (s *unitService) GetByID(ctx context.Context, id int64) (*models.Unit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *unitService) Create(ctx context.Context, unit *models.Unit) error {
	if strings.TrimSpace(unit.Title) == "" {
		return apperrors.NewInvalidArgument("unit title required")
	}
	if _, err := s.bookRepo.GetByID(ctx, unit.BookID); err != nil {
		return err
	}
	unit.Title = strings.TrimSpace(unit.Title)
	return s.repo.Create(ctx, unit)
}

func (s *unitService) Update(ctx context.Context, unit *models.Unit) error {
	if _, err := s.repo.GetByID(ctx, unit.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, unit)
}

func (s *unitService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
