package repository

import (
	"context"

	"github.com/DanielCanisOrtega/tienda-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TillRepository interface {
	Create(ctx context.Context, t *model.Till) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Till, error)
	// FindOpenByStore returns the single open till for a store, or
	// gorm.ErrRecordNotFound when none is open.
	FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.Till, error)
	Update(ctx context.Context, t *model.Till) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Till, error)
}

type tillRepo struct{ db *gorm.DB }

func NewTillRepository(db *gorm.DB) TillRepository { return &tillRepo{db: db} }

func (r *tillRepo) Create(ctx context.Context, t *model.Till) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tillRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Till, error) {
	var t model.Till
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tillRepo) FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.Till, error) {
	var t model.Till
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, model.TillOpen).
		First(&t).Error
	return &t, err
}

func (r *tillRepo) Update(ctx context.Context, t *model.Till) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tillRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Till, error) {
	var tills []model.Till
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("opened_at DESC").Find(&tills).Error
	return tills, err
}
