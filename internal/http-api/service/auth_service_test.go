package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"langleague/internal/config"
	"langleague/internal/http-api/models"
	"langleague/internal/http-api/repository"
)

func setupAuthService(t *testing.T) AuthService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.AppUser{}, &models.RefreshToken{})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:       strings.Repeat("s", 32),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewAppUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		cfg,
	)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret123", "alice@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	accessToken, refreshToken, loggedIn, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "alice@example.com", "")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateLoginAndEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "alice@example.com", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "secret123", "other@example.com", "")
	assert.ErrorIs(t, err, ErrLoginInUse)

	_, err = svc.Register(ctx, "alice2", "secret123", "alice@example.com", "")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "alice@example.com", "")
	require.NoError(t, err)

	_, refreshToken, _, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	newAccess, err := svc.RefreshAccessToken(ctx, refreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)

	_, err = svc.RefreshAccessToken(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
