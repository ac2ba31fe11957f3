package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a system account. A user may own stores and may additionally be
// employed at one store (see Employee).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	Phone        *string `gorm:"type:varchar(15)"`
	PasswordHash string  `gorm:"not null"`
	Active       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
