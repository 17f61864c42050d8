// Package report freezes month totals into MonthlySummary rows and exports a
// month as a spreadsheet.
package report

import (
	"time"

	"github.com/lijinmangal/janananma/internal/finance"
	"github.com/lijinmangal/janananma/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrSummaryExists   = errors.New("a summary for this month already exists")
	ErrSummaryNotFound = errors.New("monthly summary not found")
)

// Build rolls a loaded month into a summary row.
func Build(m *finance.Month, generatedAt time.Time) models.MonthlySummary {
	t := m.Totals()
	return models.MonthlySummary{
		Year:             m.Period.Year,
		Month:            int(m.Period.Month),
		GeneratedAt:      generatedAt,
		TotalIncome:      t.TotalIncome,
		TotalExpenditure: t.TotalExpenditure,
		TotalPurchase:    t.TotalPurchase,
		TotalCreditPaid:  t.TotalPaid,
		TotalCreditLeft:  t.TotalCreditLeft,
		TotalGooglePay:   t.TotalGooglePay,
		ClosingBalance:   m.ClosingBalance(),
	}
}

func CreateSummary(db *gorm.DB, p finance.Period) (*models.MonthlySummary, error) {
	var count int64
	if err := db.Model(&models.MonthlySummary{}).Where("year = ? AND month = ?", p.Year, int(p.Month)).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check monthly summary")
	}
	if count > 0 {
		return nil, ErrSummaryExists
	}

	m, err := finance.LoadMonth(db, p)
	if err != nil {
		return nil, err
	}

	s := Build(m, time.Now())
	if err := db.Create(&s).Error; err != nil {
		// lost a race with another request for the same month
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSummaryExists
		}
		return nil, errors.Wrap(err, "insert monthly summary")
	}
	return &s, nil
}

func ListSummaries(db *gorm.DB) ([]models.MonthlySummary, error) {
	var out []models.MonthlySummary
	if err := db.Order("year desc, month desc").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list monthly summaries")
	}
	return out, nil
}

func GetSummary(db *gorm.DB, id uint) (*models.MonthlySummary, error) {
	var s models.MonthlySummary
	err := db.First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load monthly summary")
	}
	return &s, nil
}
