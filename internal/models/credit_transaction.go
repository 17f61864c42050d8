package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditTransaction: credit handed to a staff member on a day
type CreditTransaction struct {
	ID          uint            `gorm:"primaryKey"`
	Date        time.Time       `gorm:"type:date;index;not null"`
	StaffName   string          `gorm:"size:100;index;not null"`
	CreditGiven decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DaySnapshot: every row tied to one finance date, kept in audit logs so a
// deleted day can be restored.
type DaySnapshot struct {
	Finance            DailyFinance        `json:"finance"`
	BankTransactions   []BankTransaction   `json:"bank_transactions"`
	CreditTransactions []CreditTransaction `json:"credit_transactions"`
}
