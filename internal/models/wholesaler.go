package models

import "time"

// Wholesaler: supplier the shop buys goods from on credit
type Wholesaler struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
