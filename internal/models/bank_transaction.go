package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankTransactionType string

const (
	BankTransactionIncome      BankTransactionType = "Income"
	BankTransactionExpenditure BankTransactionType = "Expenditure"
)

func (t BankTransactionType) Valid() bool {
	return t == BankTransactionIncome || t == BankTransactionExpenditure
}

// BankTransaction: ad hoc bank movement recorded with a day's finance entry
type BankTransaction struct {
	ID          uint                `gorm:"primaryKey"`
	Date        time.Time           `gorm:"type:date;index;not null"`
	Type        BankTransactionType `gorm:"size:20;not null"`
	Amount      decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Description string              `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
