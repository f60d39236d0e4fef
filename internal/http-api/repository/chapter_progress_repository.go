package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type ChapterProgressRepository interface {
	Create(ctx context.Context, progress *models.ChapterProgress) error
	FindByID(ctx context.Context, id int64) (*models.ChapterProgress, error)
	FindByChapterAndLogin(ctx context.Context, chapterID int64, login string) (*models.ChapterProgress, error)
	ListByLogin(ctx context.Context, login string) ([]models.ChapterProgress, error)
	ListByLoginAndCompleted(ctx context.Context, login string, completed bool) ([]models.ChapterProgress, error)
	AverageCompletionForBook(ctx context.Context, bookID int64, login string) (*float64, error)
	UpdateVersioned(ctx context.Context, progress *models.ChapterProgress) error
	Delete(ctx context.Context, id int64) error
}

type chapterProgressRepository struct {
	db *gorm.DB
}

func NewChapterProgressRepository(db *gorm.DB) ChapterProgressRepository {
	return &chapterProgressRepository{db: db}
}

func (r *chapterProgressRepository) Create(ctx context.Context, progress *models.ChapterProgress) error {
	if err := r.db.WithContext(ctx).Create(progress).Error; err != nil {
		if isUniqueViolation(err) {
			// A concurrent caller won the (user, chapter) insert race.
			return fmt.Errorf("create chapter progress: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("create chapter progress: %w", err)
	}
	return nil
}

func (r *chapterProgressRepository) FindByID(ctx context.Context, id int64) (*models.ChapterProgress, error) {
	var progress models.ChapterProgress
	if err := r.db.WithContext(ctx).
		Preload("AppUser.User").
		Preload("Chapter.Book").
		First(&progress, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("ChapterProgress", "id", id)
		}
		return nil, fmt.Errorf("get chapter progress: %w", err)
	}
	return &progress, nil
}

func (r *chapterProgressRepository) FindByChapterAndLogin(ctx context.Context, chapterID int64, login string) (*models.ChapterProgress, error) {
	var progress models.ChapterProgress
	if err := r.db.WithContext(ctx).
		Joins("JOIN app_users ON app_users.id = chapter_progresses.app_user_id").
		Joins("JOIN users ON users.id = app_users.user_id").
		Where("chapter_progresses.chapter_id = ? AND users.login = ?", chapterID, login).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no progress yet
		}
		return nil, fmt.Errorf("get chapter progress: %w", err)
	}
	return &progress, nil
}

func (r *chapterProgressRepository) ListByLogin(ctx context.Context, login string) ([]models.ChapterProgress, error) {
	var list []models.ChapterProgress
	if err := r.userScope(ctx, login).
		Preload("Chapter.Book").
		Order("chapter_progresses.last_accessed DESC NULLS LAST").
		Order("chapter_progresses.id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list chapter progress: %w", err)
	}
	return list, nil
}

func (r *chapterProgressRepository) ListByLoginAndCompleted(ctx context.Context, login string, completed bool) ([]models.ChapterProgress, error) {
	var list []models.ChapterProgress
	if err := r.userScope(ctx, login).
		Where("chapter_progresses.completed = ?", completed).
		Preload("Chapter.Book").
		Order("chapter_progresses.last_accessed DESC NULLS LAST").
		Order("chapter_progresses.id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list chapter progress: %w", err)
	}
	return list, nil
}

// AverageCompletionForBook averages percent over the chapters of the book the
// user actually has rows for. Returns nil when there are no rows at all.
func (r *chapterProgressRepository) AverageCompletionForBook(ctx context.Context, bookID int64, login string) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Raw(`
		SELECT AVG(COALESCE(cp.percent, 0))
		FROM chapter_progresses cp
		JOIN chapters c ON c.id = cp.chapter_id
		JOIN app_users au ON au.id = cp.app_user_id
		JOIN users u ON u.id = au.user_id
		WHERE c.book_id = ? AND u.login = ?`, bookID, login).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("average completion for book: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// UpdateVersioned writes the mutable fields of progress, guarded by the
// version the caller read. A stale version updates zero rows and surfaces as
// ErrConflict; the caller decides whether to re-read and retry.
func (r *chapterProgressRepository) UpdateVersioned(ctx context.Context, progress *models.ChapterProgress) error {
	res := r.db.WithContext(ctx).
		Model(&models.ChapterProgress{}).
		Where("id = ? AND version = ?", progress.ID, progress.Version).
		Updates(map[string]any{
			"completed":     progress.Completed,
			"percent":       progress.Percent,
			"last_accessed": progress.LastAccessed,
			"version":       progress.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update chapter progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update chapter progress %d at version %d: %w",
			progress.ID, progress.Version, apperrors.ErrConflict)
	}
	progress.Version++
	return nil
}

func (r *chapterProgressRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.ChapterProgress{}, id).Error; err != nil {
		return fmt.Errorf("delete chapter progress: %w", err)
	}
	return nil
}

func (r *chapterProgressRepository) userScope(ctx context.Context, login string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ChapterProgress{}).
		Joins("JOIN app_users ON app_users.id = chapter_progresses.app_user_id").
		Joins("JOIN users ON users.id = app_users.user_id").
		Where("users.login = ?", login)
}

// isUniqueViolation recognizes duplicate-key failures from Postgres (23505)
// and from the sqlite databases used in tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
