package service

import (
	"context"
	"fmt"
	"strings"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type NoteService interface {
	GetMyNotesForUnit(ctx context.Context, currentLogin string, unitID int64) ([]models.Note, error)
	Create(ctx context.Context, currentLogin string, unitID int64, content string) (*models.Note, error)
	Update(ctx context.Context, currentLogin string, id int64, content string) (*models.Note, error)
	Delete(ctx context.Context, currentLogin string, id int64) error
}

type noteService struct {
	repo        *repository.NoteRepo
	appUserRepo repository.AppUserRepository
	unitRepo    *repository.UnitRepo
}

func NewNoteService(
	repo *repository.NoteRepo,
	appUserRepo repository.AppUserRepository,
	unitRepo *repository.UnitRepo,
) NoteService {
	return &noteService{repo: repo, appUserRepo: appUserRepo, unitRepo: unitRepo}
}

func (s *noteService) GetMyNotesForUnit(ctx context.Context, currentLogin string, unitID int64) ([]models.Note, error) {
	appUser, err := s.appUserRepo.FindByLogin(ctx, currentLogin)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByAppUserAndUnit(ctx, appUser.ID, unitID)
}

func (s *noteService) Create(ctx context.Context, currentLogin string, unitID int64, content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewInvalidArgument("note content required")
	}
	appUser, err := s.appUserRepo.FindByLogin(ctx, currentLogin)
	if err != nil {
		return nil, err
	}
	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		return nil, err
	}

	note := &models.Note{
		AppUserID: appUser.ID,
		UnitID:    unitID,
		Content:   content,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, currentLogin string, id int64, content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewInvalidArgument("note content required")
	}
	note, err := s.getOwned(ctx, currentLogin, id)
	if err != nil {
		return nil, err
	}
	note.Content = content
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, currentLogin string, id int64) error {
	if _, err := s.getOwned(ctx, currentLogin, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *noteService) getOwned(ctx context.Context, currentLogin string, id int64) (*models.Note, error) {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appUser, err := s.appUserRepo.FindByLogin(ctx, currentLogin)
	if err != nil {
		return nil, err
	}
	if note.AppUserID != appUser.ID {
		return nil, fmt.Errorf("note %d belongs to another user: %w", id, apperrors.ErrForbidden)
	}
	return note, nil
}
