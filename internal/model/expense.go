package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a cash outflow recorded against the till that was open when it
// happened. Like sales, expenses are never reassigned to another till.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TillID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null"`
	Description string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Category    string          `gorm:"type:varchar(50);not null;index"`
	CreatedAt   time.Time

	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Till  *Till  `gorm:"foreignKey:TillID;constraint:OnDelete:CASCADE"`
	User  *User  `gorm:"foreignKey:UserID"`
}
