package repository

import (
	"context"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Expense, error)
	// SumByCategory aggregates all expenses of a store, regardless of till.
	// Grouping is exact-match on the category string.
	SumByCategory(ctx context.Context, storeID uuid.UUID) ([]dto.CategoryTotal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) SumByCategory(ctx context.Context, storeID uuid.UUID) ([]dto.CategoryTotal, error) {
	var totals []dto.CategoryTotal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("store_id = ?", storeID).
		Group("category").
		Scan(&totals).Error
	return totals, err
}
