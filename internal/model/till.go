package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Till statuses.
const (
	TillOpen   = "open"
	TillClosed = "closed"
)

// Till shift labels.
const (
	ShiftMorning = "morning"
	ShiftNight   = "night"
)

// Till is a cash register session. Lifecycle is open → closed, one-way.
// At most one till per store may be open at any time — guaranteed by a
// partial unique index on (store_id) WHERE status = 'open' (see infra).
type Till struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpenedByID     uuid.UUID       `gorm:"type:uuid;not null"`
	Shift          string          `gorm:"type:varchar(10);not null;default:'morning'"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// ClosingBalance is set exactly once, when the till is closed.
	ClosingBalance *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Status         string           `gorm:"type:varchar(10);not null;default:'open'"`
	OpenedAt       time.Time
	ClosedAt       *time.Time

	Store    *Store `gorm:"foreignKey:StoreID"`
	OpenedBy *User  `gorm:"foreignKey:OpenedByID"`
}
