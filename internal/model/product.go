package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a saleable item in a store's inventory.
// QuantityOnHand never goes negative: it is mutated only through explicit
// stock adjustments or the conditional decrement inside a sale transaction.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"index;not null"`
	Category string    `gorm:"not null"`
	// UnitPrice is the current list price; sale lines capture their own
	// snapshot and never re-derive it from here.
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	QuantityOnHand int             `gorm:"not null;default:0;check:quantity_on_hand >= 0"`
	// MinQuantity is the low-stock alert threshold.
	MinQuantity int     `gorm:"not null;default:5"`
	Barcode     *string `gorm:"uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Store *Store `gorm:"foreignKey:StoreID"`
}
