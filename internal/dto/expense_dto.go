package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordExpenseRequest struct {
	Description string          `json:"description" validate:"required,min=3"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Category    string          `json:"category"    validate:"required,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ExpenseResponse struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	TillID      string          `json:"till_id"`
	UserID      string          `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CreatedAt   string          `json:"created_at"`
}

// CategoryTotal is one row of the expenses-by-category summary.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}
