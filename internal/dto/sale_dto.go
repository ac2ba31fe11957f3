package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Lines []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
	// CustomerEmail: optional — when present, the email worker mails the PDF
	// receipt after the sale commits.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// SaleFilter is bound from the query string of GET sales.
type SaleFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	StoreID   string             `json:"store_id"`
	TillID    string             `json:"till_id"`
	UserID    string             `json:"user_id"`
	Lines     []SaleLineResponse `json:"lines"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
