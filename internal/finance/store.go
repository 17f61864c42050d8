package finance

import (
	"time"

	"github.com/lijinmangal/janananma/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEntryExists   = errors.New("finance entry already exists for this date")
	ErrEntryNotFound = errors.New("finance entry not found")
)

// CreateEntry stores the day's finance row together with its bank and credit
// line items. The finance row goes in with ON CONFLICT (date) DO NOTHING, so of
// two racing submissions for the same date exactly one wins; the loser gets
// ErrEntryExists and nothing is written.
func CreateEntry(db *gorm.DB, in Input) (*models.DaySnapshot, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	finance, bank, credit := in.Records()

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).Create(&finance)
		if res.Error != nil {
			return errors.Wrap(res.Error, "insert daily finance")
		}
		if res.RowsAffected == 0 {
			return ErrEntryExists
		}

		if len(bank) > 0 {
			if err := tx.Create(&bank).Error; err != nil {
				return errors.Wrap(err, "insert bank transactions")
			}
		}
		if len(credit) > 0 {
			if err := tx.Create(&credit).Error; err != nil {
				return errors.Wrap(err, "insert credit transactions")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.DaySnapshot{
		Finance:            finance,
		BankTransactions:   bank,
		CreditTransactions: credit,
	}, nil
}

func EntryExists(db *gorm.DB, date time.Time) (bool, error) {
	var count int64
	if err := db.Model(&models.DailyFinance{}).Where("date = ?", date).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "count finance entries")
	}
	return count > 0, nil
}

// PreviousDayBalance is the closing balance of the day before date, or zero.
func PreviousDayBalance(db *gorm.DB, date time.Time) (decimal.Decimal, error) {
	var prev models.DailyFinance
	err := db.Where("date = ?", date.AddDate(0, 0, -1)).Take(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "load previous day")
	}
	return prev.Balance, nil
}

// OutstandingCredit sums every credit ever handed to each staff member.
func OutstandingCredit(db *gorm.DB) (map[string]decimal.Decimal, error) {
	var rows []models.CreditTransaction
	if err := db.Select("staff_name", "credit_given").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load credit transactions")
	}

	out := make(map[string]decimal.Decimal, len(CreditStaff))
	for _, name := range CreditStaff {
		out[name] = decimal.Zero
	}
	for _, r := range rows {
		out[r.StaffName] = out[r.StaffName].Add(r.CreditGiven)
	}
	return out, nil
}

// LoadDay returns the finance row with the given id and the line items that
// share its date.
func LoadDay(db *gorm.DB, id uint) (*models.DaySnapshot, error) {
	var snap models.DaySnapshot
	err := db.First(&snap.Finance, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load finance entry")
	}
	if err := loadLineItems(db, snap.Finance.Date, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func loadLineItems(db *gorm.DB, date time.Time, snap *models.DaySnapshot) error {
	if err := db.Where("date = ?", date).Order("id asc").Find(&snap.BankTransactions).Error; err != nil {
		return errors.Wrap(err, "load bank transactions")
	}
	if err := db.Where("date = ?", date).Order("id asc").Find(&snap.CreditTransactions).Error; err != nil {
		return errors.Wrap(err, "load credit transactions")
	}
	return nil
}

// DeleteResult describes what a date deletion removed.
type DeleteResult struct {
	Snapshot       *models.DaySnapshot // nil when no finance row existed
	FinanceDeleted int64
	BankDeleted    int64
	CreditDeleted  int64
}

// DeleteByDate removes the finance row and the bank and credit line items of
// date. Purchases are a separate wholesaler ledger and are left alone.
// Deleting a date with nothing on it is not an error.
func DeleteByDate(db *gorm.DB, date time.Time) (*DeleteResult, error) {
	result := &DeleteResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var snap models.DaySnapshot
		err := tx.Where("date = ?", date).Take(&snap.Finance).Error
		switch {
		case err == nil:
			if err := loadLineItems(tx, date, &snap); err != nil {
				return err
			}
			result.Snapshot = &snap
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return errors.Wrap(err, "load finance entry")
		}

		res := tx.Where("date = ?", date).Delete(&models.DailyFinance{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete daily finance")
		}
		result.FinanceDeleted = res.RowsAffected

		res = tx.Where("date = ?", date).Delete(&models.BankTransaction{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete bank transactions")
		}
		result.BankDeleted = res.RowsAffected

		res = tx.Where("date = ?", date).Delete(&models.CreditTransaction{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete credit transactions")
		}
		result.CreditDeleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
