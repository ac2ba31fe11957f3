package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records a completed multi-line sale against the till that was open at
// creation time. Sales are immutable after creation.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TillID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Lines []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Store *Store     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Till  *Till      `gorm:"foreignKey:TillID;constraint:OnDelete:CASCADE"`
	User  *User      `gorm:"foreignKey:UserID"`
}

// SaleLine is one product/quantity entry within a sale. UnitPrice is the
// price captured at sale time; Subtotal = Quantity × UnitPrice is derived in
// the sale transaction, never accepted from callers. The product FK carries
// no ON DELETE action: a lone product delete with sale history fails at the
// database, and the service refuses it with a Conflict before reaching that
// point, while a store-wide cascade removes the lines and the product in the
// same statement.
type SaleLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
