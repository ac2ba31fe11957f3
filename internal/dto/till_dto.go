package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenTillRequest struct {
	Shift          string          `json:"shift"           validate:"required,oneof=morning night"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CloseTillRequest struct {
	// Pointer so that an absent balance is distinguishable from zero.
	ClosingBalance *decimal.Decimal `json:"closing_balance" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TillResponse struct {
	ID             string           `json:"id"`
	StoreID        string           `json:"store_id"`
	OpenedByID     string           `json:"opened_by_id"`
	Shift          string           `json:"shift"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	Status         string           `json:"status"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at,omitempty"`
}
