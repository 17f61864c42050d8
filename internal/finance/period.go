package finance

import (
	"sort"
	"time"

	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrInvalidPeriod = errors.New("invalid month or year")

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
	First time.Time
	Last  time.Time
}

func NewPeriod(year, month int) (Period, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	first, last := dates.MonthBounds(year, time.Month(month))
	return Period{Year: year, Month: time.Month(month), First: first, Last: last}, nil
}

// CurrentPeriod is the month containing today.
func CurrentPeriod() Period {
	today := dates.Today()
	p, _ := NewPeriod(today.Year(), int(today.Month()))
	return p
}

// Days lists every calendar day of the period.
func (p Period) Days() []time.Time {
	days := make([]time.Time, 0, 31)
	for d := p.First; !d.After(p.Last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Month holds every ledger row dated inside a period.
type Month struct {
	Period    Period
	Finance   []models.DailyFinance // date ascending
	Purchases []models.Purchase
	Bank      []models.BankTransaction
	Credit    []models.CreditTransaction
}

// LoadMonth runs the four range queries side by side, so db must not be a
// transaction.
func LoadMonth(db *gorm.DB, p Period) (*Month, error) {
	m := &Month{Period: p}
	inRange := func() *gorm.DB {
		return db.Where("date >= ? AND date <= ?", p.First, p.Last).Order("date asc, id asc")
	}

	var g errgroup.Group
	g.Go(func() error {
		return errors.Wrap(inRange().Find(&m.Finance).Error, "load finance entries")
	})
	g.Go(func() error {
		return errors.Wrap(inRange().Preload("Wholesaler").Find(&m.Purchases).Error, "load purchases")
	})
	g.Go(func() error {
		return errors.Wrap(inRange().Find(&m.Bank).Error, "load bank transactions")
	})
	g.Go(func() error {
		return errors.Wrap(inRange().Find(&m.Credit).Error, "load credit transactions")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// MonthTotals are the owner's headline figures. TotalIncome is the month's
// sales, as the shop labels it.
type MonthTotals struct {
	TotalIncome        decimal.Decimal
	TotalExpenditure   decimal.Decimal
	TotalStaffSalary   decimal.Decimal
	TotalGooglePay     decimal.Decimal
	TotalOtherIncome   decimal.Decimal
	TotalOtherExpenses decimal.Decimal
	TotalPurchase      decimal.Decimal
	TotalPaid          decimal.Decimal
	TotalCreditLeft    decimal.Decimal
}

func (m *Month) Totals() MonthTotals {
	var t MonthTotals
	for _, f := range m.Finance {
		t.TotalIncome = t.TotalIncome.Add(f.SaleOfDay)
		t.TotalExpenditure = t.TotalExpenditure.Add(f.TotalExpenditure)
		t.TotalStaffSalary = t.TotalStaffSalary.Add(f.StaffSalary)
		t.TotalGooglePay = t.TotalGooglePay.Add(f.GooglePayIncome)
		t.TotalOtherIncome = t.TotalOtherIncome.Add(f.OtherIncome)
		t.TotalOtherExpenses = t.TotalOtherExpenses.Add(f.OtherExpenditure)
	}
	for _, p := range m.Purchases {
		t.TotalPurchase = t.TotalPurchase.Add(p.BillAmount)
		t.TotalPaid = t.TotalPaid.Add(p.PaidAmount)
		t.TotalCreditLeft = t.TotalCreditLeft.Add(p.CreditLeft)
	}
	return t
}

// ClosingBalance is the balance of the last entered day, zero for an empty month.
func (m *Month) ClosingBalance() decimal.Decimal {
	if len(m.Finance) == 0 {
		return decimal.Zero
	}
	return m.Finance[len(m.Finance)-1].Balance
}

// MissingDates are the days up to today with no finance entry.
func (m *Month) MissingDates(today time.Time) []time.Time {
	return MissingDates(m.Period, m.Finance, today)
}

func MissingDates(p Period, entries []models.DailyFinance, today time.Time) []time.Time {
	existing := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		existing[dates.Format(e.Date)] = struct{}{}
	}

	missing := make([]time.Time, 0)
	for _, d := range p.Days() {
		if d.After(today) {
			break
		}
		if _, ok := existing[dates.Format(d)]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

// DayGroup is every row of one kind sharing a date.
type DayGroup[T any] struct {
	Date  string
	Items []T
}

// GroupByDate buckets rows by their calendar date, dates ascending, rows in
// their incoming order within a day.
func GroupByDate[T any](rows []T, dateOf func(T) time.Time) []DayGroup[T] {
	index := make(map[string]int)
	groups := make([]DayGroup[T], 0)
	for _, r := range rows {
		key := dates.Format(dateOf(r))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup[T]{Date: key})
		}
		groups[i].Items = append(groups[i].Items, r)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date < groups[j].Date })
	return groups
}

func purchaseDate(p models.Purchase) time.Time       { return p.Date }
func bankDate(b models.BankTransaction) time.Time     { return b.Date }
func creditDate(c models.CreditTransaction) time.Time { return c.Date }
