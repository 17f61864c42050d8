package finance

import (
	"net/url"
	"testing"
	"time"

	"github.com/lijinmangal/janananma/internal/database/dbtest"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func sampleInput(date time.Time) Input {
	in := ParseForm(url.Values{
		"previous_balance":     {"500"},
		"sale_of_day":          {"1000"},
		"salary_amila":         {"300"},
		"sip":                  {"50"},
		"transaction_type[]":   {"Income", "Expenditure"},
		"amount[]":             {"0", "200"},
		"description[]":        {"x", "y"},
		"credit_given_ashwati": {"40"},
	})
	in.Date = date
	return in
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateEntryStoresDayAtomically(t *testing.T) {
	db := dbtest.Setup(t)

	snap, err := CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)
	assert.NotZero(t, snap.Finance.ID)
	assert.Equal(t, "1150.00", money.Format(snap.Finance.Balance))

	var stored models.DailyFinance
	require.NoError(t, db.First(&stored, snap.Finance.ID).Error)
	assert.Equal(t, "1500.00", money.Format(stored.TotalIncome))
	assert.Equal(t, "350.00", money.Format(stored.TotalExpenditure))
	assert.Equal(t, "1150.00", money.Format(stored.Balance))
	assert.Equal(t, "40.00", money.Format(stored.CreditGiven))

	var bank []models.BankTransaction
	require.NoError(t, db.Find(&bank).Error)
	require.Len(t, bank, 1)
	assert.Equal(t, models.BankTransactionExpenditure, bank[0].Type)
	assert.Equal(t, "200.00", money.Format(bank[0].Amount))

	assert.EqualValues(t, 1, count(t, db, &models.CreditTransaction{}))
}

func TestCreateEntryRejectsDuplicateDate(t *testing.T) {
	db := dbtest.Setup(t)

	_, err := CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)

	_, err = CreateEntry(db, sampleInput(day(10)))
	assert.ErrorIs(t, err, ErrEntryExists)

	assert.EqualValues(t, 1, count(t, db, &models.DailyFinance{}))
	assert.EqualValues(t, 1, count(t, db, &models.BankTransaction{}))
	assert.EqualValues(t, 1, count(t, db, &models.CreditTransaction{}))
}

func TestCreateEntryRejectsNegativeAmounts(t *testing.T) {
	db := dbtest.Setup(t)

	in := sampleInput(day(10))
	in.Sip = decimal.NewFromInt(-1)

	_, err := CreateEntry(db, in)
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Zero(t, count(t, db, &models.DailyFinance{}))
}

func TestEntryExistsAndPreviousDayBalance(t *testing.T) {
	db := dbtest.Setup(t)

	prev, err := PreviousDayBalance(db, day(11))
	require.NoError(t, err)
	assert.True(t, prev.IsZero())

	_, err = CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)

	exists, err := EntryExists(db, day(10))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = EntryExists(db, day(11))
	require.NoError(t, err)
	assert.False(t, exists)

	prev, err = PreviousDayBalance(db, day(11))
	require.NoError(t, err)
	assert.Equal(t, "1150.00", money.Format(prev))

	// only the immediately preceding day counts
	prev, err = PreviousDayBalance(db, day(12))
	require.NoError(t, err)
	assert.True(t, prev.IsZero())
}

func TestOutstandingCreditSumsAllDays(t *testing.T) {
	db := dbtest.Setup(t)

	_, err := CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)
	_, err = CreateEntry(db, sampleInput(day(11)))
	require.NoError(t, err)

	credit, err := OutstandingCredit(db)
	require.NoError(t, err)

	assert.Len(t, credit, len(CreditStaff))
	assert.Equal(t, "80.00", money.Format(credit["Ashwati"]))
	assert.True(t, credit["Others"].IsZero())
}

func TestLoadDay(t *testing.T) {
	db := dbtest.Setup(t)

	snap, err := CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)
	_, err = CreateEntry(db, sampleInput(day(11)))
	require.NoError(t, err)

	loaded, err := LoadDay(db, snap.Finance.ID)
	require.NoError(t, err)
	assert.Equal(t, day(10), loaded.Finance.Date.UTC())
	assert.Len(t, loaded.BankTransactions, 1)
	assert.Len(t, loaded.CreditTransactions, 1)

	_, err = LoadDay(db, 9999)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDeleteByDateKeepsPurchases(t *testing.T) {
	db := dbtest.Setup(t)

	_, err := CreateEntry(db, sampleInput(day(10)))
	require.NoError(t, err)
	_, err = CreateEntry(db, sampleInput(day(11)))
	require.NoError(t, err)

	w := models.Wholesaler{Name: "Kerala Traders"}
	require.NoError(t, db.Create(&w).Error)
	require.NoError(t, db.Create(&models.Purchase{
		Date: day(10), WholesalerID: w.ID, BillNumber: "B-1",
		BillAmount: decimal.NewFromInt(100), CreditLeft: decimal.NewFromInt(100),
	}).Error)

	result, err := DeleteByDate(db, day(10))
	require.NoError(t, err)
	require.NotNil(t, result.Snapshot)
	assert.EqualValues(t, 1, result.FinanceDeleted)
	assert.EqualValues(t, 1, result.BankDeleted)
	assert.EqualValues(t, 1, result.CreditDeleted)
	assert.Len(t, result.Snapshot.BankTransactions, 1)

	assert.EqualValues(t, 1, count(t, db, &models.DailyFinance{}))
	assert.EqualValues(t, 1, count(t, db, &models.BankTransaction{}))
	assert.EqualValues(t, 1, count(t, db, &models.CreditTransaction{}))
	assert.EqualValues(t, 1, count(t, db, &models.Purchase{}))

	// deleting again is a no-op
	result, err = DeleteByDate(db, day(10))
	require.NoError(t, err)
	assert.Nil(t, result.Snapshot)
	assert.Zero(t, result.FinanceDeleted)
}
