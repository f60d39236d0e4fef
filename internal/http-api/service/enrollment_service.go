package service

import (
	"context"
	"fmt"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type EnrollmentService interface {
	GetMyEnrollments(ctx context.Context, currentLogin string) ([]models.Enrollment, error)
	Enroll(ctx context.Context, currentLogin string, bookID int64) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, currentLogin string, id int64, status string) (*models.Enrollment, error)
	Withdraw(ctx context.Context, currentLogin string, id int64) error
}

type enrollmentService struct {
	repo        *repository.EnrollmentRepo
	appUserRepo repository.AppUserRepository
	bookRepo    *repository.BookRepo
}

func NewEnrollmentService(
	repo *repository.EnrollmentRepo,
	appUserRepo repository.AppUserRepository,
	bookRepo *repository.BookRepo,
) EnrollmentService {
	return &enrollmentService{repo: repo, appUserRepo: appUserRepo, bookRepo: bookRepo}
}

func (s *enrollmentService) GetMyEnrollments(ctx context.Context, currentLogin string) ([]models.Enrollment, error) {
	appUser, err := s.appUserRepo.FindByLogin(ctx, currentLogin)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByAppUser(ctx, appUser.ID)
}

func (s *enrollmentService) Enroll(ctx context.Context, currentLogin string, bookID int64) (*models.Enrollment, error) {
	appUser, err := s.appUserRepo.FindByLogin(ctx, currentLogin)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		AppUserID: appUser.ID,
		BookID:    bookID,
		Status:    models.EnrollmentActive,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, currentLogin string, id int64, status string) (*models.Enrollment, error) {
	switch status {
	case models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentDropped:
	default:
		return nil, apperrors.NewInvalidArgument("invalid enrollment status: %q", status)
	}

	enrollment, err := s.getOwned(ctx, currentLogin, id)
	if err != nil {
		return nil, err
	}
	enrollment.Status = status
	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *enrollmentService) Withdraw(ctx context.Context, currentLogin string, id int64) error {
	if _, err := s.getOwned(ctx, currentLogin, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *enrollmentService) getOwned(ctx context.Context, currentLogin string, id int64) (*models.Enrollment, error) {
	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appUser, err := s.appUserRepo.FindByLogin(ctx, currentLogin)
	if err != nil {
		return nil, err
	}
	if enrollment.AppUserID != appUser.ID {
		return nil, fmt.Errorf("enrollment %d belongs to another user: %w", id, apperrors.ErrForbidden)
	}
	return enrollment, nil
}
