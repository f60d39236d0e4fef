package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/dto"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

// CompletionCache is the optional Redis cache in front of the book
// completion aggregate. A nil cache disables caching.
type CompletionCache interface {
	Get(ctx context.Context, login string, bookID int64) (float64, bool)
	Set(ctx context.Context, login string, bookID int64, percent float64)
	Invalidate(ctx context.Context, login string)
}

// UpdateProgressInput is a full replacement of the mutable progress fields.
type UpdateProgressInput struct {
	Completed bool
	Percent   int
}

// PatchProgressInput updates only the fields that are set.
type PatchProgressInput struct {
	Completed *bool
	Percent   *int
}

type ProgressService interface {
	MarkAsCompleted(ctx context.Context, currentLogin string, chapterID int64, userLogin string) error
	UpdateProgress(ctx context.Context, currentLogin string, chapterID int64, userLogin string, percent int) error
	GetBookCompletionPercentage(ctx context.Context, bookID int64, userLogin string) (float64, error)
	GetMyChapters(ctx context.Context, userLogin string) ([]dto.MyChapterResponse, error)
	GetMyInProgressChapters(ctx context.Context, userLogin string) ([]dto.MyChapterResponse, error)
	GetMyCompletedChapters(ctx context.Context, userLogin string) ([]dto.MyChapterResponse, error)
	FindOne(ctx context.Context, currentLogin string, id int64) (*models.ChapterProgress, error)
	Update(ctx context.Context, currentLogin string, id int64, input UpdateProgressInput) (*models.ChapterProgress, error)
	PartialUpdate(ctx context.Context, currentLogin string, id int64, patch PatchProgressInput) (*models.ChapterProgress, error)
	Delete(ctx context.Context, currentLogin string, id int64) error
}

type progressService struct {
	repo        repository.ChapterProgressRepository
	appUserRepo repository.AppUserRepository
	chapterRepo *repository.ChapterRepo
	cache       CompletionCache
	logger      *slog.Logger
}

func NewProgressService(
	repo repository.ChapterProgressRepository,
	appUserRepo repository.AppUserRepository,
	chapterRepo *repository.ChapterRepo,
	cache CompletionCache,
	logger *slog.Logger,
) ProgressService {
	return &progressService{
		repo:        repo,
		appUserRepo: appUserRepo,
		chapterRepo: chapterRepo,
		cache:       cache,
		logger:      logger,
	}
}

// MarkAsCompleted sets a chapter to 100% complete for the user, creating the
// progress row first if none exists.
func (s *progressService) MarkAsCompleted(ctx context.Context, currentLogin string, chapterID int64, userLogin string) error {
	s.logger.Debug("mark chapter as completed", "chapter_id", chapterID, "user", userLogin)

	err := withConflictRetry(ctx, func() error {
		progress, err := s.findOrCreateProgress(ctx, currentLogin, chapterID, userLogin)
		if err != nil {
			return err
		}
		now := time.Now()
		progress.Completed = true
		progress.Percent = 100
		progress.LastAccessed = &now
		return s.repo.UpdateVersioned(ctx, progress)
	})
	if err != nil {
		return err
	}

	s.invalidateCompletion(ctx, userLogin)
	s.logger.Info("chapter marked as completed", "chapter_id", chapterID, "user", userLogin)
	return nil
}

// UpdateProgress records a new completion percentage for the chapter,
// creating the progress row first if none exists. Reaching 100 also marks
// the chapter completed.
func (s *progressService) UpdateProgress(ctx context.Context, currentLogin string, chapterID int64, userLogin string, percent int) error {
	s.logger.Debug("update chapter progress", "chapter_id", chapterID, "user", userLogin, "percent", percent)

	if percent < 0 || percent > 100 {
		return apperrors.NewInvalidArgument("percent must be between 0 and 100, got %d", percent)
	}

	err := withConflictRetry(ctx, func() error {
		progress, err := s.findOrCreateProgress(ctx, currentLogin, chapterID, userLogin)
		if err != nil {
			return err
		}
		now := time.Now()
		progress.Percent = percent
		progress.LastAccessed = &now
		if percent >= 100 {
			progress.Completed = true
		}
		return s.repo.UpdateVersioned(ctx, progress)
	})
	if err != nil {
		return err
	}

	s.invalidateCompletion(ctx, userLogin)
	s.logger.Info("chapter progress updated", "chapter_id", chapterID, "user", userLogin, "percent", percent)
	return nil
}

// GetBookCompletionPercentage averages the user's percent over the chapters
// of the book they have progress rows for. No rows means 0.0, not an error.
func (s *progressService) GetBookCompletionPercentage(ctx context.Context, bookID int64, userLogin string) (float64, error) {
	if pct, ok := s.cacheGet(ctx, userLogin, bookID); ok {
		return pct, nil
	}

	avg, err := s.repo.AverageCompletionForBook(ctx, bookID, userLogin)
	if err != nil {
		return 0, err
	}
	pct := 0.0
	if avg != nil {
		pct = *avg
	}

	s.cacheSet(ctx, userLogin, bookID, pct)
	return pct, nil
}

func (s *progressService) GetMyChapters(ctx context.Context, userLogin string) ([]dto.MyChapterResponse, error) {
	list, err := s.repo.ListByLogin(ctx, userLogin)
	if err != nil {
		return nil, err
	}
	return toMyChapterResponses(list), nil
}

func (s *progressService) GetMyInProgressChapters(ctx context.Context, userLogin string) ([]dto.MyChapterResponse, error) {
	list, err := s.repo.ListByLoginAndCompleted(ctx, userLogin, false)
	if err != nil {
		return nil, err
	}
	return toMyChapterResponses(list), nil
}

func (s *progressService) GetMyCompletedChapters(ctx context.Context, userLogin string) ([]dto.MyChapterResponse, error) {
	list, err := s.repo.ListByLoginAndCompleted(ctx, userLogin, true)
	if err != nil {
		return nil, err
	}
	return toMyChapterResponses(list), nil
}

// FindOne returns a single progress record by id, owner only.
func (s *progressService) FindOne(ctx context.Context, currentLogin string, id int64) (*models.ChapterProgress, error) {
	progress, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.assertOwnership(currentLogin, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// Update replaces the mutable fields of an existing progress record. Version
// conflicts are retried with a fresh read before being surfaced.
func (s *progressService) Update(ctx context.Context, currentLogin string, id int64, input UpdateProgressInput) (*models.ChapterProgress, error) {
	if input.Percent < 0 || input.Percent > 100 {
		return nil, apperrors.NewInvalidArgument("percent must be between 0 and 100, got %d", input.Percent)
	}

	var updated *models.ChapterProgress
	err := withConflictRetry(ctx, func() error {
		progress, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.assertOwnership(currentLogin, progress); err != nil {
			return err
		}
		now := time.Now()
		progress.Completed = input.Completed
		progress.Percent = input.Percent
		progress.LastAccessed = &now
		if err := s.repo.UpdateVersioned(ctx, progress); err != nil {
			return err
		}
		updated = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCompletion(ctx, updated.AppUser.User.Login)
	return updated, nil
}

// PartialUpdate applies only the fields present in patch.
func (s *progressService) PartialUpdate(ctx context.Context, currentLogin string, id int64, patch PatchProgressInput) (*models.ChapterProgress, error) {
	if patch.Percent != nil && (*patch.Percent < 0 || *patch.Percent > 100) {
		return nil, apperrors.NewInvalidArgument("percent must be between 0 and 100, got %d", *patch.Percent)
	}

	var updated *models.ChapterProgress
	err := withConflictRetry(ctx, func() error {
		progress, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.assertOwnership(currentLogin, progress); err != nil {
			return err
		}
		now := time.Now()
		if patch.Completed != nil {
			progress.Completed = *patch.Completed
		}
		if patch.Percent != nil {
			progress.Percent = *patch.Percent
			if *patch.Percent >= 100 {
				progress.Completed = true
			}
		}
		progress.LastAccessed = &now
		if err := s.repo.UpdateVersioned(ctx, progress); err != nil {
			return err
		}
		updated = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCompletion(ctx, updated.AppUser.User.Login)
	return updated, nil
}

// Delete removes a progress record, owner only.
func (s *progressService) Delete(ctx context.Context, currentLogin string, id int64) error {
	progress, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assertOwnership(currentLogin, progress); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// Keyed by the record's owner, not the caller, so the right user's cache
	// drops even if a non-owner path is ever allowed through the guard.
	s.invalidateCompletion(ctx, progress.AppUser.User.Login)
	s.logger.Info("chapter progress deleted", "progress_id", id, "user", currentLogin)
	return nil
}

// --- helpers ---

// assertOwnership fails with ErrForbidden unless the caller is authenticated
// and is the owner of the progress record. Case-sensitive login comparison.
func (s *progressService) assertOwnership(currentLogin string, progress *models.ChapterProgress) error {
	if currentLogin == "" {
		return fmt.Errorf("caller not authenticated: %w", apperrors.ErrForbidden)
	}
	if progress.AppUser.User.Login != currentLogin {
		return fmt.Errorf("progress %d belongs to another user: %w", progress.ID, apperrors.ErrForbidden)
	}
	return nil
}

// findOrCreateProgress returns the unique (user, chapter) progress row,
// creating and persisting it immediately when absent. A concurrent creation
// race surfaces as ErrConflict from the store; callers run this inside the
// conflict retry so both racers converge on the surviving row.
func (s *progressService) findOrCreateProgress(ctx context.Context, currentLogin string, chapterID int64, userLogin string) (*models.ChapterProgress, error) {
	if currentLogin == "" {
		return nil, fmt.Errorf("caller not authenticated: %w", apperrors.ErrForbidden)
	}
	if currentLogin != userLogin {
		return nil, fmt.Errorf("users can only update their own progress: %w", apperrors.ErrForbidden)
	}

	progress, err := s.repo.FindByChapterAndLogin(ctx, chapterID, userLogin)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		return progress, nil
	}

	s.logger.Info("no existing progress found, creating a new one", "chapter_id", chapterID, "user", userLogin)

	appUser, err := s.appUserRepo.FindByLogin(ctx, userLogin)
	if err != nil {
		return nil, err
	}
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	progress = &models.ChapterProgress{
		AppUserID:    appUser.ID,
		ChapterID:    chapter.ID,
		Completed:    false,
		Percent:      0,
		LastAccessed: &now,
	}
	if err := s.repo.Create(ctx, progress); err != nil {
		return nil, err
	}
	progress.AppUser = *appUser
	progress.Chapter = *chapter
	return progress, nil
}

func (s *progressService) cacheGet(ctx context.Context, login string, bookID int64) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}
	return s.cache.Get(ctx, login, bookID)
}

func (s *progressService) cacheSet(ctx context.Context, login string, bookID int64, pct float64) {
	if s.cache != nil {
		s.cache.Set(ctx, login, bookID, pct)
	}
}

func (s *progressService) invalidateCompletion(ctx context.Context, login string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, login)
	}
}

func toMyChapterResponses(list []models.ChapterProgress) []dto.MyChapterResponse {
	resp := make([]dto.MyChapterResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, dto.MyChapterResponse{
			ChapterID:     p.ChapterID,
			ChapterTitle:  p.Chapter.Title,
			OrderIndex:    p.Chapter.OrderIndex,
			BookID:        p.Chapter.BookID,
			BookTitle:     p.Chapter.Book.Title,
			BookThumbnail: p.Chapter.Book.Thumbnail,
			BookLevel:     p.Chapter.Book.Level,
			Percent:       p.Percent,
			Completed:     p.Completed,
			LastAccessed:  p.LastAccessed,
		})
	}
	return resp
}
