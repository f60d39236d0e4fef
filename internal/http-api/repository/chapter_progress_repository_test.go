package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.AppUser{},
		&models.Book{},
		&models.Chapter{},
		&models.ChapterProgress{},
	)
	require.NoError(t, err)
	return db
}

func seedLearner(t *testing.T, db *gorm.DB, login string) *models.AppUser {
	t.Helper()
	user := &models.User{
		Login:    login,
		Email:    fmt.Sprintf("%s@example.com", login),
		Password: "x",
	}
	require.NoError(t, db.Create(user).Error)

	appUser := &models.AppUser{UserID: user.ID, DisplayName: login}
	require.NoError(t, db.Create(appUser).Error)
	appUser.User = *user
	return appUser
}

func seedBookWithChapters(t *testing.T, db *gorm.DB, n int) (*models.Book, []models.Chapter) {
	t.Helper()
	book := &models.Book{Title: "Korean for Beginners"}
	require.NoError(t, db.Create(book).Error)

	chapters := make([]models.Chapter, 0, n)
	for i := 1; i <= n; i++ {
		ch := models.Chapter{BookID: book.ID, Title: fmt.Sprintf("Chapter %d", i), OrderIndex: i}
		require.NoError(t, db.Create(&ch).Error)
		chapters = append(chapters, ch)
	}
	return book, chapters
}

func TestCreateProgress_DuplicateUserChapterIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	learner := seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 1)

	first := &models.ChapterProgress{AppUserID: learner.ID, ChapterID: chapters[0].ID}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.ChapterProgress{AppUserID: learner.ID, ChapterID: chapters[0].ID}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFindByChapterAndLogin_MissingIsNilNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 1)

	progress, err := repo.FindByChapterAndLogin(ctx, chapters[0].ID, "alice")
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestFindByChapterAndLogin_ScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	alice := seedLearner(t, db, "alice")
	seedLearner(t, db, "bob")
	_, chapters := seedBookWithChapters(t, db, 1)

	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: alice.ID,
		ChapterID: chapters[0].ID,
		Percent:   55,
	}))

	found, err := repo.FindByChapterAndLogin(ctx, chapters[0].ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 55, found.Percent)

	other, err := repo.FindByChapterAndLogin(ctx, chapters[0].ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestUpdateVersioned_IncrementsVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	learner := seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 1)

	progress := &models.ChapterProgress{AppUserID: learner.ID, ChapterID: chapters[0].ID}
	require.NoError(t, repo.Create(ctx, progress))
	require.Equal(t, int64(0), progress.Version)

	now := time.Now()
	progress.Percent = 40
	progress.LastAccessed = &now
	require.NoError(t, repo.UpdateVersioned(ctx, progress))
	assert.Equal(t, int64(1), progress.Version)

	stored, err := repo.FindByID(ctx, progress.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.Percent)
	assert.Equal(t, int64(1), stored.Version)
}

func TestUpdateVersioned_StaleVersionIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	learner := seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 1)

	progress := &models.ChapterProgress{AppUserID: learner.ID, ChapterID: chapters[0].ID}
	require.NoError(t, repo.Create(ctx, progress))

	// A second reader holding the same version wins the first write.
	stale := *progress
	progress.Percent = 40
	require.NoError(t, repo.UpdateVersioned(ctx, progress))

	stale.Percent = 80
	err := repo.UpdateVersioned(ctx, &stale)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := repo.FindByID(ctx, progress.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.Percent)
}

func TestListByLogin_RecentFirstNullsLast(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	learner := seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 3)

	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)

	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: learner.ID, ChapterID: chapters[0].ID, LastAccessed: &older,
	}))
	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: learner.ID, ChapterID: chapters[1].ID, LastAccessed: &newer,
	}))
	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: learner.ID, ChapterID: chapters[2].ID, // never accessed
	}))

	list, err := repo.ListByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, chapters[1].ID, list[0].ChapterID)
	assert.Equal(t, chapters[0].ID, list[1].ChapterID)
	assert.Equal(t, chapters[2].ID, list[2].ChapterID)
}

func TestListByLoginAndCompleted_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	learner := seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 2)

	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: learner.ID, ChapterID: chapters[0].ID, Completed: true, Percent: 100,
	}))
	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: learner.ID, ChapterID: chapters[1].ID, Percent: 30,
	}))

	completed, err := repo.ListByLoginAndCompleted(ctx, "alice", true)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, chapters[0].ID, completed[0].ChapterID)

	inProgress, err := repo.ListByLoginAndCompleted(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, chapters[1].ID, inProgress[0].ChapterID)
}

func TestAverageCompletionForBook(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	alice := seedLearner(t, db, "alice")
	bob := seedLearner(t, db, "bob")
	book, chapters := seedBookWithChapters(t, db, 3)

	// Alice touched two of three chapters; the third does not count.
	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: alice.ID, ChapterID: chapters[0].ID, Percent: 40,
	}))
	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: alice.ID, ChapterID: chapters[1].ID, Percent: 100, Completed: true,
	}))
	// Bob's rows must not leak into Alice's aggregate.
	require.NoError(t, repo.Create(ctx, &models.ChapterProgress{
		AppUserID: bob.ID, ChapterID: chapters[0].ID, Percent: 10,
	}))

	avg, err := repo.AverageCompletionForBook(ctx, book.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 70.0, *avg, 0.001)
}

func TestAverageCompletionForBook_NoRowsIsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	seedLearner(t, db, "alice")
	book, _ := seedBookWithChapters(t, db, 2)

	avg, err := repo.AverageCompletionForBook(ctx, book.ID, "alice")
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestFindByID_MissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)

	_, err := repo.FindByID(context.Background(), 12345)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteProgress(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChapterProgressRepository(db)
	ctx := context.Background()

	learner := seedLearner(t, db, "alice")
	_, chapters := seedBookWithChapters(t, db, 1)

	progress := &models.ChapterProgress{AppUserID: learner.ID, ChapterID: chapters[0].ID}
	require.NoError(t, repo.Create(ctx, progress))
	require.NoError(t, repo.Delete(ctx, progress.ID))

	_, err := repo.FindByID(ctx, progress.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
