package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type AppUserRepository interface {
	Create(ctx context.Context, appUser *models.AppUser) error
	FindByID(ctx context.Context, id int64) (*models.AppUser, error)
	FindByLogin(ctx context.Context, login string) (*models.AppUser, error)
	Update(ctx context.Context, appUser *models.AppUser) error
}

type appUserRepository struct {
	db *gorm.DB
}

func NewAppUserRepository(db *gorm.DB) AppUserRepository {
	return &appUserRepository{db: db}
}

func (r *appUserRepository) Create(ctx context.Context, appUser *models.AppUser) error {
	if err := r.db.WithContext(ctx).Create(appUser).Error; err != nil {
		return fmt.Errorf("create app user: %w", err)
	}
	return nil
}

func (r *appUserRepository) FindByID(ctx context.Context, id int64) (*models.AppUser, error) {
	var appUser models.AppUser
	if err := r.db.WithContext(ctx).Preload("User").First(&appUser, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("AppUser", "id", id)
		}
		return nil, fmt.Errorf("get app user: %w", err)
	}
	return &appUser, nil
}

func (r *appUserRepository) FindByLogin(ctx context.Context, login string) (*models.AppUser, error) {
	var appUser models.AppUser
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = app_users.user_id").
		Where("users.login = ?", login).
		Preload("User").
		First(&appUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("AppUser", "login", login)
		}
		return nil, fmt.Errorf("get app user: %w", err)
	}
	return &appUser, nil
}

func (r *appUserRepository) Update(ctx context.Context, appUser *models.AppUser) error {
	if err := r.db.WithContext(ctx).Save(appUser).Error; err != nil {
		return fmt.Errorf("update app user: %w", err)
	}
	return nil
}
