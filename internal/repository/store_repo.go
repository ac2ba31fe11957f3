package repository

import (
	"context"

	"github.com/DanielCanisOrtega/tienda-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(ctx context.Context, s *model.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Store, error)
	Update(ctx context.Context, s *model.Store) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Employment — the unique index on employees.user_id makes a user
	// employable by at most one store at a time.
	AddEmployee(ctx context.Context, e *model.Employee) error
	FindEmployeeByUser(ctx context.Context, userID uuid.UUID) (*model.Employee, error)
	ListEmployees(ctx context.Context, storeID uuid.UUID) ([]model.Employee, error)
	RemoveEmployee(ctx context.Context, storeID, userID uuid.UUID) error
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) Create(ctx context.Context, s *model.Store) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *storeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) Update(ctx context.Context, s *model.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Store{}, id).Error
}

func (r *storeRepo) AddEmployee(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *storeRepo) FindEmployeeByUser(ctx context.Context, userID uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&e).Error
	return &e, err
}

func (r *storeRepo) ListEmployees(ctx context.Context, storeID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Preload("User").
		Where("store_id = ?", storeID).Order("hired_at ASC").Find(&employees).Error
	return employees, err
}

func (r *storeRepo) RemoveEmployee(ctx context.Context, storeID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Delete(&model.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
