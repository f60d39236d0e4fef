package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langleague/internal/http-api/apperrors"
	"langleague/internal/http-api/models"
)

type UnitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

func (r *UnitRepo) GetByBook(ctx context.Context, bookID int64) ([]models.Unit, error) {
	var list []models.Unit
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("order_index asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get units by book: %w", err)
	}
	return list, nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id int64) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Unit", "id", id)
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &unit, nil
}

func (r *UnitRepo) Create(ctx context.Context, unit *models.Unit) error {
	if err := r.db.WithContext(ctx).Create(unit).Error; err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) Update(ctx context.Context, unit *models.Unit) error {
	if err := r.db.WithContext(ctx).Save(unit).Error; err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Unit{}, id).Error; err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}
