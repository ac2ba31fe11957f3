package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"         validate:"required,min=2,max=100"`
	Category    string          `json:"category"     validate:"required,max=50"`
	UnitPrice   decimal.Decimal `json:"unit_price"   validate:"required,gt=0"`
	Quantity    int             `json:"quantity"     validate:"min=0"`
	MinQuantity *int            `json:"min_quantity" validate:"omitempty,min=0"`
	Barcode     *string         `json:"barcode"      validate:"omitempty,max=50"`
}

type UpdateProductRequest struct {
	Name      string           `json:"name"       validate:"omitempty,min=2,max=100"`
	Category  string           `json:"category"   validate:"omitempty,max=50"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gt=0"`
	Barcode   *string          `json:"barcode"    validate:"omitempty,max=50"`
}

// AdjustQuantityRequest sets the absolute quantity on hand, not a delta.
type AdjustQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

// ProductFilter is bound from the query string of the product list endpoint.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	MinQuantity    int             `json:"min_quantity"`
	Barcode        *string         `json:"barcode,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// StockMovementResponse is one row of a product's stock audit trail.
type StockMovementResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Delta       int     `json:"delta"`
	Before      int     `json:"before"`
	After       int     `json:"after"`
	Reason      string  `json:"reason,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// PriceCheckResponse is served by the public barcode price endpoint.
type PriceCheckResponse struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Available int             `json:"available"`
	Category  string          `json:"category"`
}
