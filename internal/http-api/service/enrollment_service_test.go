package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

type enrollmentFixture struct {
	db      *gorm.DB
	service EnrollmentService
	book    *models.Book
}

func setupEnrollmentService(t *testing.T) *enrollmentFixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.AppUser{}, &models.Book{}, &models.Enrollment{})
	require.NoError(t, err)

	book := &models.Book{Title: "Korean for Beginners"}
	require.NoError(t, db.Create(book).Error)

	svc := NewEnrollmentService(
		repository.NewEnrollmentRepo(db),
		repository.NewAppUserRepository(db),
		repository.NewBookRepo(db),
	)
	return &enrollmentFixture{db: db, service: svc, book: book}
}

func (f *enrollmentFixture) addLearner(t *testing.T, login string) {
	t.Helper()
	user := &models.User{
		Login:    login,
		Email:    fmt.Sprintf("%s@example.com", login),
		Password: "x",
	}
	require.NoError(t, f.db.Create(user).Error)
	require.NoError(t, f.db.Create(&models.AppUser{UserID: user.ID, DisplayName: login}).Error)
}

func TestEnroll(t *testing.T) {
	f := setupEnrollmentService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	enrollment, err := f.service.Enroll(ctx, "alice", f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)

	list, err := f.service.GetMyEnrollments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.book.ID, list[0].BookID)
}

func TestEnroll_TwiceIsConflict(t *testing.T) {
	f := setupEnrollmentService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, "alice", f.book.ID)
	require.NoError(t, err)

	_, err = f.service.Enroll(ctx, "alice", f.book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEnroll_UnknownBook(t *testing.T) {
	f := setupEnrollmentService(t)
	f.addLearner(t, "alice")

	_, err := f.service.Enroll(context.Background(), "alice", 9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatus_OwnerOnly(t *testing.T) {
	f := setupEnrollmentService(t)
	f.addLearner(t, "alice")
	f.addLearner(t, "bob")
	ctx := context.Background()

	enrollment, err := f.service.Enroll(ctx, "alice", f.book.ID)
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(ctx, "alice", enrollment.ID, models.EnrollmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)

	_, err = f.service.UpdateStatus(ctx, "bob", enrollment.ID, models.EnrollmentDropped)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.service.UpdateStatus(ctx, "alice", enrollment.ID, "paused")
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestWithdraw(t *testing.T) {
	f := setupEnrollmentService(t)
	f.addLearner(t, "alice")
	ctx := context.Background()

	enrollment, err := f.service.Enroll(ctx, "alice", f.book.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.Withdraw(ctx, "alice", enrollment.ID))

	list, err := f.service.GetMyEnrollments(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}
