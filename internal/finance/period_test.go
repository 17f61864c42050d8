package finance

import (
	"testing"
	"time"

	"github.com/lijinmangal/janananma/internal/database/dbtest"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func march(t *testing.T) Period {
	t.Helper()
	p, err := NewPeriod(2025, 3)
	require.NoError(t, err)
	return p
}

func formatAll(ds []time.Time) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, dates.Format(d))
	}
	return out
}

func TestNewPeriod(t *testing.T) {
	p := march(t)
	assert.Equal(t, "2025-03-01", dates.Format(p.First))
	assert.Equal(t, "2025-03-31", dates.Format(p.Last))
	assert.Len(t, p.Days(), 31)

	for _, bad := range [][2]int{{2025, 0}, {2025, 13}, {0, 5}, {10000, 1}} {
		_, err := NewPeriod(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidPeriod, "%v", bad)
	}

	old, err := NewPeriod(1998, 2)
	require.NoError(t, err)
	assert.Equal(t, "1998-02-28", dates.Format(old.Last))
}

func TestMissingDatesStopsAtToday(t *testing.T) {
	p := march(t)
	entries := []models.DailyFinance{{Date: day(2)}, {Date: day(4)}}

	missing := MissingDates(p, entries, day(5))
	assert.Equal(t, []string{"2025-03-01", "2025-03-03", "2025-03-05"}, formatAll(missing))
}

func TestMissingDatesNeverContainsFutureOrEnteredDays(t *testing.T) {
	p := march(t)
	entries := []models.DailyFinance{{Date: day(1)}, {Date: day(15)}, {Date: day(31)}}
	today := day(20)

	for _, d := range MissingDates(p, entries, today) {
		assert.False(t, d.After(today), dates.Format(d))
		for _, e := range entries {
			assert.NotEqual(t, dates.Format(e.Date), dates.Format(d))
		}
	}
	assert.Len(t, MissingDates(p, entries, today), 18)
}

func TestMissingDatesForPastAndFutureMonths(t *testing.T) {
	p := march(t)

	assert.Len(t, MissingDates(p, nil, day(31).AddDate(0, 2, 0)), 31)
	assert.Empty(t, MissingDates(p, nil, day(1).AddDate(0, -1, 0)))
}

func TestGroupByDateOrdersDays(t *testing.T) {
	rows := []models.BankTransaction{
		{ID: 3, Date: day(9)},
		{ID: 1, Date: day(2)},
		{ID: 4, Date: day(9)},
		{ID: 2, Date: day(5)},
	}

	groups := GroupByDate(rows, bankDate)
	require.Len(t, groups, 3)
	assert.Equal(t, "2025-03-02", groups[0].Date)
	assert.Equal(t, "2025-03-05", groups[1].Date)
	assert.Equal(t, "2025-03-09", groups[2].Date)
	require.Len(t, groups[2].Items, 2)
	assert.Equal(t, uint(3), groups[2].Items[0].ID)
	assert.Equal(t, uint(4), groups[2].Items[1].ID)
}

func TestLoadMonthEmptyGivesZeros(t *testing.T) {
	db := dbtest.Setup(t)

	m, err := LoadMonth(db, march(t))
	require.NoError(t, err)

	totals := m.Totals()
	assert.True(t, totals.TotalIncome.IsZero())
	assert.True(t, totals.TotalPurchase.IsZero())
	assert.True(t, m.ClosingBalance().IsZero())
	assert.Empty(t, GroupByDate(m.Purchases, purchaseDate))
	assert.Empty(t, GroupByDate(m.Bank, bankDate))
}

func TestLoadMonthTotals(t *testing.T) {
	db := dbtest.Setup(t)

	_, err := CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)
	second := sampleInput(day(11))
	second.GPayToBank = decimal.NewFromInt(120)
	second.OtherIncome = decimal.NewFromInt(30)
	_, err = CreateEntry(db, second)
	require.NoError(t, err)

	// outside the month
	_, err = CreateEntry(db, sampleInput(day(1).AddDate(0, 1, 0)))
	require.NoError(t, err)

	w := models.Wholesaler{Name: "Malabar Foods"}
	require.NoError(t, db.Create(&w).Error)
	for _, p := range []models.Purchase{
		{Date: day(10), WholesalerID: w.ID, BillNumber: "1", BillAmount: decimal.NewFromInt(400), PaidAmount: decimal.NewFromInt(100), CreditLeft: decimal.NewFromInt(300)},
		{Date: day(12), WholesalerID: w.ID, BillNumber: "2", PreviousCredit: decimal.NewFromInt(300), BillAmount: decimal.NewFromInt(50), CreditLeft: decimal.NewFromInt(350)},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	m, err := LoadMonth(db, march(t))
	require.NoError(t, err)
	require.Len(t, m.Finance, 2)

	totals := m.Totals()
	assert.Equal(t, "2000.00", money.Format(totals.TotalIncome))
	assert.Equal(t, "820.00", money.Format(totals.TotalExpenditure))
	assert.Equal(t, "600.00", money.Format(totals.TotalStaffSalary))
	assert.Equal(t, "120.00", money.Format(totals.TotalGooglePay))
	assert.Equal(t, "30.00", money.Format(totals.TotalOtherIncome))
	assert.Equal(t, "450.00", money.Format(totals.TotalPurchase))
	assert.Equal(t, "100.00", money.Format(totals.TotalPaid))
	assert.Equal(t, "650.00", money.Format(totals.TotalCreditLeft))
	assert.Equal(t, "1060.00", money.Format(m.ClosingBalance()))

	require.Len(t, m.Purchases, 2)
	assert.Equal(t, "Malabar Foods", m.Purchases[0].Wholesaler.Name)
}
