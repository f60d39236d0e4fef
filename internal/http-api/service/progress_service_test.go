package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type progressFixture struct {
	db       *gorm.DB
	service  ProgressService
	repo     repository.ChapterProgressRepository
	book     *models.Book
	chapters []models.Chapter
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupProgressService(t *testing.T) *progressFixture {
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

	book := &models.Book{Title: "Korean for Beginners"}
	require.NoError(t, db.Create(book).Error)

	chapters := make([]models.Chapter, 0, 3)
	for i := 1; i <= 3; i++ {
		ch := models.Chapter{BookID: book.ID, Title: fmt.Sprintf("Chapter %d", i), OrderIndex: i}
		require.NoError(t, db.Create(&ch).Error)
		chapters = append(chapters, ch)
	}

	progressRepo := repository.NewChapterProgressRepository(db)
	svc := NewProgressService(
		progressRepo,
		repository.NewAppUserRepository(db),
		repository.NewChapterRepo(db),
		nil,
		testLogger(),
	)

	return &progressFixture{
		db:       db,
		service:  svc,
		repo:     progressRepo,
		book:     book,
		chapters: chapters,
	}
}

func (f *progressFixture) addLearner(t *testing.T, login string) *models.AppUser {
	t.Helper()
	user := &models.User{
		Login:    login,
		Email:    fmt.Sprintf("%s@example.com", login),
		Password: "x",
	}
	require.NoError(t, f.db.Create(user).Error)

	appUser := &models.AppUser{UserID: user.ID, DisplayName: login}
	require.NoError(t, f.db.Create(appUser).Error)
	appUser.User = *user
	return appUser
}

func TestMarkAsCompleted_CreatesRowWhenAbsent(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	err := f.service.MarkAsCompleted(ctx, "alice", f.chapters[0].ID, "alice")
	require.NoError(t, err)

	progress, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.True(t, progress.Completed)
	assert.Equal(t, 100, progress.Percent)
	assert.NotNil(t, progress.LastAccessed)
}

func TestMarkAsCompleted_Idempotent(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.MarkAsCompleted(ctx, "alice", f.chapters[0].ID, "alice"))

	first, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)

	require.NoError(t, f.service.MarkAsCompleted(ctx, "alice", f.chapters[0].ID, "alice"))

	second, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)
	assert.Equal(t, 100, second.Percent)

	var count int64
	require.NoError(t, f.db.Model(&models.ChapterProgress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProgress_CreatesThenReusesRow(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 40))

	first, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 40, first.Percent)
	assert.False(t, first.Completed)

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 60))

	second, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 60, second.Percent)
}

func TestUpdateProgress_FullPercentMarksCompleted(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 100))

	progress, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
}

func TestUpdateProgress_LowerPercentKeepsCompleted(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.MarkAsCompleted(ctx, "alice", f.chapters[0].ID, "alice"))
	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 50))

	progress, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 50, progress.Percent)
	assert.True(t, progress.Completed)
}

func TestUpdateProgress_RejectsOutOfRangePercent(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	err := f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", -1)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))

	err = f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 101)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestProgressMutations_RequireOwnership(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	f.addLearner(t, "bob")
	ctx := context.Background()

	err := f.service.MarkAsCompleted(ctx, "bob", f.chapters[0].ID, "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = f.service.UpdateProgress(ctx, "", f.chapters[0].ID, "alice", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetBookCompletionPercentage(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 40))
	require.NoError(t, f.service.MarkAsCompleted(ctx, "alice", f.chapters[1].ID, "alice"))

	pct, err := f.service.GetBookCompletionPercentage(ctx, f.book.ID, "alice")
	require.NoError(t, err)
	assert.InDelta(t, 70.0, pct, 0.001)
}

func TestGetBookCompletionPercentage_NoProgressIsZero(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")

	pct, err := f.service.GetBookCompletionPercentage(context.Background(), f.book.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
}

func TestGetMyChapters_MostRecentFirst(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 20))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[1].ID, "alice", 30))

	list, err := f.service.GetMyChapters(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, f.chapters[1].ID, list[0].ChapterID)
	assert.Equal(t, f.book.Title, list[0].BookTitle)
}

func TestGetMyChapters_CompletedSplit(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.MarkAsCompleted(ctx, "alice", f.chapters[0].ID, "alice"))
	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[1].ID, "alice", 30))

	completed, err := f.service.GetMyCompletedChapters(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, f.chapters[0].ID, completed[0].ChapterID)

	inProgress, err := f.service.GetMyInProgressChapters(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, f.chapters[1].ID, inProgress[0].ChapterID)
}

func TestFindOne_OwnerOnly(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	f.addLearner(t, "bob")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 40))
	created, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)

	got, err := f.service.FindOne(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.service.FindOne(ctx, "bob", created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdate_ReplacesFields(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.MarkAsCompleted(ctx, "alice", f.chapters[0].ID, "alice"))
	created, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, "alice", created.ID, UpdateProgressInput{
		Completed: false,
		Percent:   25,
	})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Equal(t, 25, updated.Percent)
	assert.Greater(t, updated.Version, created.Version)
}

func TestPartialUpdate_PatchesOnlyGivenFields(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 40))
	created, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)

	percent := 100
	patched, err := f.service.PartialUpdate(ctx, "alice", created.ID, PatchProgressInput{
		Percent: &percent,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, patched.Percent)
	assert.True(t, patched.Completed, "reaching 100 should complete the chapter")

	bad := 150
	_, err = f.service.PartialUpdate(ctx, "alice", created.ID, PatchProgressInput{Percent: &bad})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Get(ctx context.Context, login string, bookID int64) (float64, bool) {
	return 0, false
}

func (c *recordingCache) Set(ctx context.Context, login string, bookID int64, percent float64) {}

func (c *recordingCache) Invalidate(ctx context.Context, login string) {
	c.invalidated = append(c.invalidated, login)
}

func TestMutations_InvalidateOwnerCompletionCache(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	rec := &recordingCache{}
	svc := NewProgressService(
		f.repo,
		repository.NewAppUserRepository(f.db),
		repository.NewChapterRepo(f.db),
		rec,
		testLogger(),
	)

	require.NoError(t, svc.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 40))
	created, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)

	rec.invalidated = nil
	_, err = svc.Update(ctx, "alice", created.ID, UpdateProgressInput{Percent: 60})
	require.NoError(t, err)
	require.NotEmpty(t, rec.invalidated)
	assert.Equal(t, "alice", rec.invalidated[len(rec.invalidated)-1])

	rec.invalidated = nil
	require.NoError(t, svc.Delete(ctx, "alice", created.ID))
	require.NotEmpty(t, rec.invalidated)
	assert.Equal(t, "alice", rec.invalidated[len(rec.invalidated)-1])
}

func TestDelete_RemovesProgress(t *testing.T) {
	f := setupProgressService(t)
	f.addLearner(t, "alice")
	f.addLearner(t, "bob")
	ctx := context.Background()

	require.NoError(t, f.service.UpdateProgress(ctx, "alice", f.chapters[0].ID, "alice", 40))
	created, err := f.repo.FindByChapterAndLogin(ctx, f.chapters[0].ID, "alice")
	require.NoError(t, err)

	err = f.service.Delete(ctx, "bob", created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.service.Delete(ctx, "alice", created.ID))

	_, err = f.service.FindOne(ctx, "alice", created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
