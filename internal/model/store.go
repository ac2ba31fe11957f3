package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is the tenant boundary: every product, till, sale and expense belongs
// to exactly one store. Deleting a store cascades to everything it owns.
type Store struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null;index"`
	Address   string    `gorm:"not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner     *User      `gorm:"foreignKey:OwnerID"`
	Employees []Employee `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Products  []Product  `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Tills     []Till     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

// Employee links a user account to the store that employs it.
// The unique index on UserID enforces that a user works for at most one
// store at a time.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;index"`
	HiredAt   time.Time `gorm:"not null"`
	CreatedAt time.Time

	User  *User  `gorm:"foreignKey:UserID"`
	Store *Store `gorm:"foreignKey:StoreID"`
}
