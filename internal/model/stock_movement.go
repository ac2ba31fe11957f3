package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types.
const (
	MovementSale         = "sale"
	MovementManualAdjust = "manual_adjust"
)

// StockMovement records every change to a product's quantity on hand.
// Created automatically on sale and on manual adjustment; never updated or
// deleted.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"not null"` // MovementSale | MovementManualAdjust
	Delta     int       `gorm:"not null"` // positive = inflow, negative = outflow
	Before    int       `gorm:"not null"`
	After     int       `gorm:"not null"`
	Reason    string
	// ReferenceID links to the originating sale, when applicable.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	// Movement rows live and die with their product: deleting a product (or
	// cascading a whole store) takes its ledger with it.
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
