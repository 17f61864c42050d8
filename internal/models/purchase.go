package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase: one wholesaler bill on a given day.
// CreditLeft = PreviousCredit + BillAmount - PaidAmount, and becomes the next
// purchase's PreviousCredit for the same wholesaler.
type Purchase struct {
	ID             uint            `gorm:"primaryKey"`
	Date           time.Time       `gorm:"type:date;index;not null"`
	WholesalerID   uint            `gorm:"index;not null"`
	Wholesaler     Wholesaler      `gorm:"foreignKey:WholesalerID"`
	PreviousCredit decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BillNumber     string          `gorm:"size:50;not null"`
	BillAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreditLeft     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
