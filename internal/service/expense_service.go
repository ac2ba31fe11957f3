package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
)

type ExpenseService interface {
	Record(ctx context.Context, storeID, userID uuid.UUID, req dto.RecordExpenseRequest) (*dto.ExpenseResponse, error)
	ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]dto.ExpenseResponse, error)
	SummarizeByCategory(ctx context.Context, storeID, userID uuid.UUID) ([]dto.CategoryTotal, error)
}

type expenseService struct {
	repo   repository.ExpenseRepository
	tills  TillService
	access AccessService
}

func NewExpenseService(repo repository.ExpenseRepository, tills TillService, access AccessService) ExpenseService {
	return &expenseService{repo: repo, tills: tills, access: access}
}

// Record registers an expense against the store's open till. A store without
// an open till cannot record expenses.
func (s *expenseService) Record(ctx context.Context, storeID, userID uuid.UUID, req dto.RecordExpenseRequest) (*dto.ExpenseResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	till, err := s.tills.FindOpen(ctx, storeID)
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		StoreID:     storeID,
		TillID:      till.ID,
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expenseToResponse(expense), nil
}

func (s *expenseService) ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]dto.ExpenseResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, *expenseToResponse(&expenses[i]))
	}
	return out, nil
}

func (s *expenseService) SummarizeByCategory(ctx context.Context, storeID, userID uuid.UUID) ([]dto.CategoryTotal, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	return s.repo.SumByCategory(ctx, storeID)
}

func expenseToResponse(e *model.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID.String(),
		StoreID:     e.StoreID.String(),
		TillID:      e.TillID.String(),
		UserID:      e.UserID.String(),
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
