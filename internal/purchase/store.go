// Package purchase records wholesaler bills and carries each wholesaler's
// outstanding credit from one bill to the next.
package purchase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrWholesalerExists    = errors.New("wholesaler already exists")
	ErrWholesalerNameEmpty = errors.New("wholesaler name is required")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
)

// PreviousCredit is the credit_left of the wholesaler's latest purchase dated
// on or before onOrBefore. found is false when the wholesaler has no such
// purchase.
func PreviousCredit(db *gorm.DB, wholesalerID uint, onOrBefore time.Time) (credit decimal.Decimal, found bool, err error) {
	var last models.Purchase
	err = db.Where("wholesaler_id = ? AND date <= ?", wholesalerID, onOrBefore).
		Order("date desc, id desc").
		Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errors.Wrap(err, "load latest purchase")
	}
	return last.CreditLeft, true, nil
}

// Line is one wholesaler's row of the purchase entry form.
type Line struct {
	WholesalerID   uint
	BillNumber     string
	BillAmount     decimal.Decimal
	PaidAmount     decimal.Decimal
	PreviousCredit decimal.Decimal // as shown to the client
	CreditLeft     *decimal.Decimal
}

func field(id uint, name string) string {
	return fmt.Sprintf("wholesaler_%d_%s", id, name)
}

// ParseForm reads the rows of wholesalers that have a bill number. Amounts that
// are missing or unparsable count as zero; an amount too large to store fails
// the whole form.
func ParseForm(form url.Values, wholesalers []models.Wholesaler) ([]Line, error) {
	lines := make([]Line, 0)
	for _, w := range wholesalers {
		bill := strings.TrimSpace(form.Get(field(w.ID, "bill_number")))
		if bill == "" {
			continue
		}
		line := Line{WholesalerID: w.ID, BillNumber: bill}
		for _, f := range []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"bill_amount", &line.BillAmount},
			{"paid_amount", &line.PaidAmount},
			{"previous_credit", &line.PreviousCredit},
		} {
			d, err := money.OrZero(form.Get(field(w.ID, f.name)))
			if err != nil {
				return nil, errors.Wrap(err, field(w.ID, f.name))
			}
			*f.dst = d
		}
		// only compared against the computed value
		if left, err := money.Parse(form.Get(field(w.ID, "credit_left"))); err == nil {
			line.CreditLeft = &left
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (l Line) validate() error {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"bill_amount", l.BillAmount},
		{"paid_amount", l.PaidAmount},
		{"previous_credit", l.PreviousCredit},
	} {
		if f.value.IsNegative() {
			return errors.Wrap(ErrNegativeAmount, f.name)
		}
		if err := money.CheckLimit(f.value); err != nil {
			return errors.Wrap(err, f.name)
		}
	}
	return nil
}

// CreatePurchases stores one purchase per line in a single transaction.
// Previous credit comes from the wholesaler's history; the submitted value is
// used only as the opening balance of a wholesaler without one. credit_left is
// always recomputed.
func CreatePurchases(db *gorm.DB, date time.Time, lines []Line) ([]models.Purchase, error) {
	for _, l := range lines {
		if err := l.validate(); err != nil {
			return nil, err
		}
	}

	created := make([]models.Purchase, 0, len(lines))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			prev, found, err := PreviousCredit(tx, l.WholesalerID, date)
			if err != nil {
				return err
			}
			if !found {
				prev = l.PreviousCredit
			} else if !prev.Equal(l.PreviousCredit) {
				logger.Warn("submitted previous credit ignored",
					"wholesaler_id", l.WholesalerID,
					"submitted", money.Format(l.PreviousCredit),
					"carried", money.Format(prev),
				)
			}

			p := models.Purchase{
				Date:           date,
				WholesalerID:   l.WholesalerID,
				PreviousCredit: prev,
				BillNumber:     l.BillNumber,
				BillAmount:     l.BillAmount,
				PaidAmount:     l.PaidAmount,
				CreditLeft:     prev.Add(l.BillAmount).Sub(l.PaidAmount),
			}
			if err := money.CheckLimit(p.CreditLeft); err != nil {
				return errors.Wrapf(err, "credit_left of wholesaler %d", l.WholesalerID)
			}
			if l.CreditLeft != nil && !l.CreditLeft.Equal(p.CreditLeft) {
				logger.Warn("submitted credit left recomputed",
					"wholesaler_id", l.WholesalerID,
					"submitted", money.Format(*l.CreditLeft),
					"computed", money.Format(p.CreditLeft),
				)
			}

			if err := tx.Create(&p).Error; err != nil {
				return errors.Wrap(err, "insert purchase")
			}
			if err := tx.First(&p.Wholesaler, "id = ?", p.WholesalerID).Error; err != nil {
				return errors.Wrap(err, "load wholesaler")
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func ListWholesalers(db *gorm.DB) ([]models.Wholesaler, error) {
	var ws []models.Wholesaler
	if err := db.Order("name asc, id asc").Find(&ws).Error; err != nil {
		return nil, errors.Wrap(err, "list wholesalers")
	}
	return ws, nil
}

func CreateWholesaler(db *gorm.DB, name string) (*models.Wholesaler, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrWholesalerNameEmpty
	}

	w := models.Wholesaler{Name: name}
	if err := db.Create(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWholesalerExists
		}
		return nil, errors.Wrap(err, "insert wholesaler")
	}
	return &w, nil
}
