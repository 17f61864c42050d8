package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyFinance: the consolidated cash sheet of one calendar day.
// Exactly one row per date (unique index); Balance = TotalIncome - TotalExpenditure.
type DailyFinance struct {
	ID   uint      `gorm:"primaryKey"`
	Date time.Time `gorm:"type:date;uniqueIndex;not null"`

	PreviousDayBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ExtraCash          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	// income side
	MoneyFromBank   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreditReceived  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"` // staff credit repaid
	CreditGiven     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"` // sum of credit line items
	GooglePayIncome decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	SaleOfDay       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OtherIncome     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OwnerIncome     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BlackPurse      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	// expenditure side
	SipPaid          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	GokulamPaid      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ChittyPaid       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OwnerExpenditure decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	StaffSalary      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreditPaidOut    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CustomerCredit   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OtherExpenditure decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MedicineReturn   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PurchasePaid     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	TotalIncome      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalExpenditure decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Balance          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
