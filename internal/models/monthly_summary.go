package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary: frozen month rollup produced by the owner
type MonthlySummary struct {
	ID          uint      `gorm:"primaryKey"`
	Year        int       `gorm:"uniqueIndex:idx_monthly_summary_period;not null"`
	Month       int       `gorm:"uniqueIndex:idx_monthly_summary_period;not null"`
	GeneratedAt time.Time `gorm:"not null"`

	TotalIncome      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalExpenditure decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalPurchase    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalCreditPaid  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalCreditLeft  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalGooglePay   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ClosingBalance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
