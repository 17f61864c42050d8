package finance

import (
	"strconv"
	"time"

	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"

	"github.com/gofiber/fiber/v2"
)

type PurchaseResponse struct {
	ID             uint   `json:"id"`
	Date           string `json:"date"`
	WholesalerID   uint   `json:"wholesaler_id"`
	WholesalerName string `json:"wholesaler_name"`
	PreviousCredit string `json:"previous_credit"`
	BillNumber     string `json:"bill_number"`
	BillAmount     string `json:"bill_amount"`
	PaidAmount     string `json:"paid_amount"`
	CreditLeft     string `json:"credit_left"`
}

func ToPurchaseResponse(p models.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:             p.ID,
		Date:           dates.Format(p.Date),
		WholesalerID:   p.WholesalerID,
		WholesalerName: p.Wholesaler.Name,
		PreviousCredit: money.Format(p.PreviousCredit),
		BillNumber:     p.BillNumber,
		BillAmount:     money.Format(p.BillAmount),
		PaidAmount:     money.Format(p.PaidAmount),
		CreditLeft:     money.Format(p.CreditLeft),
	}
}

type MonthTotalsResponse struct {
	TotalIncome        string `json:"total_income"`
	TotalExpenditure   string `json:"total_expenditure"`
	TotalStaffSalary   string `json:"total_staff_salary"`
	TotalGooglePay     string `json:"total_google_pay"`
	TotalOtherIncome   string `json:"total_other_income"`
	TotalOtherExpenses string `json:"total_other_expenses"`
	TotalPurchase      string `json:"total_purchase"`
	TotalPaid          string `json:"total_paid"`
	TotalCreditLeft    string `json:"total_credit_left"`
	ClosingBalance     string `json:"closing_balance"`
}

type DayGroupResponse[T any] struct {
	Date  string `json:"date"`
	Items []T    `json:"items"`
}

type OwnerDashboardResponse struct {
	Year            int                                         `json:"year"`
	Month           int                                         `json:"month"`
	Summary         MonthTotalsResponse                         `json:"summary"`
	Entries         []FinanceResponse                           `json:"entries"`
	PurchasesByDate []DayGroupResponse[PurchaseResponse]        `json:"purchases_by_date"`
	BankByDate      []DayGroupResponse[BankTransactionResponse] `json:"bank_by_date"`
}

type ManagerSummaryResponse struct {
	Year            int                                           `json:"year"`
	Month           int                                           `json:"month"`
	Summary         MonthTotalsResponse                           `json:"summary"`
	Entries         []FinanceResponse                             `json:"entries"`
	BankByDate      []DayGroupResponse[BankTransactionResponse]   `json:"bank_by_date"`
	CreditByDate    []DayGroupResponse[CreditTransactionResponse] `json:"credit_by_date"`
	PurchasesByDate []DayGroupResponse[PurchaseResponse]          `json:"purchases_by_date"`
	MissingDates    []string                                      `json:"missing_dates"`
}

// PeriodFromQuery reads ?month=&year=, defaulting to the current month.
func PeriodFromQuery(c *fiber.Ctx) (Period, error) {
	current := CurrentPeriod()

	year, err := queryInt(c, "year", current.Year)
	if err != nil {
		return Period{}, err
	}
	month, err := queryInt(c, "month", int(current.Month))
	if err != nil {
		return Period{}, err
	}

	p, err := NewPeriod(year, month)
	if err != nil {
		return Period{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return p, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, ErrInvalidPeriod.Error())
	}
	return v, nil
}

func loadMonthForRequest(c *fiber.Ctx) (*Month, error) {
	p, err := PeriodFromQuery(c)
	if err != nil {
		return nil, err
	}
	m, err := LoadMonth(database.DB, p)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "month could not be loaded")
	}
	return m, nil
}

func (m *Month) totalsResponse() MonthTotalsResponse {
	t := m.Totals()
	f := money.Format
	return MonthTotalsResponse{
		TotalIncome:        f(t.TotalIncome),
		TotalExpenditure:   f(t.TotalExpenditure),
		TotalStaffSalary:   f(t.TotalStaffSalary),
		TotalGooglePay:     f(t.TotalGooglePay),
		TotalOtherIncome:   f(t.TotalOtherIncome),
		TotalOtherExpenses: f(t.TotalOtherExpenses),
		TotalPurchase:      f(t.TotalPurchase),
		TotalPaid:          f(t.TotalPaid),
		TotalCreditLeft:    f(t.TotalCreditLeft),
		ClosingBalance:     f(m.ClosingBalance()),
	}
}

func groupResponses[T, R any](rows []T, dateOf func(T) time.Time, conv func(T) R) []DayGroupResponse[R] {
	groups := GroupByDate(rows, dateOf)
	out := make([]DayGroupResponse[R], 0, len(groups))
	for _, g := range groups {
		items := make([]R, 0, len(g.Items))
		for _, it := range g.Items {
			items = append(items, conv(it))
		}
		out = append(out, DayGroupResponse[R]{Date: g.Date, Items: items})
	}
	return out
}

func bankResponse(b models.BankTransaction) BankTransactionResponse {
	return toBankResponses([]models.BankTransaction{b})[0]
}

func creditResponse(r models.CreditTransaction) CreditTransactionResponse {
	return toCreditResponses([]models.CreditTransaction{r})[0]
}

// -------------------------------------------------
// GET /api/owner/summary?month=1&year=2025
// -------------------------------------------------
func OwnerDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := loadMonthForRequest(c)
		if err != nil {
			return err
		}

		entries := make([]FinanceResponse, 0, len(m.Finance))
		for _, f := range m.Finance {
			entries = append(entries, toFinanceResponse(f))
		}

		return c.JSON(OwnerDashboardResponse{
			Year:            m.Period.Year,
			Month:           int(m.Period.Month),
			Summary:         m.totalsResponse(),
			Entries:         entries,
			PurchasesByDate: groupResponses(m.Purchases, purchaseDate, ToPurchaseResponse),
			BankByDate:      groupResponses(m.Bank, bankDate, bankResponse),
		})
	}
}

// -------------------------------------------------
// GET /api/manager/finance-summary?month=1&year=2025
// -------------------------------------------------
func ManagerSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := loadMonthForRequest(c)
		if err != nil {
			return err
		}

		// newest first
		entries := make([]FinanceResponse, 0, len(m.Finance))
		for i := len(m.Finance) - 1; i >= 0; i-- {
			entries = append(entries, toFinanceResponse(m.Finance[i]))
		}

		missing := m.MissingDates(dates.Today())
		missingDates := make([]string, 0, len(missing))
		for _, d := range missing {
			missingDates = append(missingDates, dates.Format(d))
		}

		return c.JSON(ManagerSummaryResponse{
			Year:            m.Period.Year,
			Month:           int(m.Period.Month),
			Summary:         m.totalsResponse(),
			Entries:         entries,
			BankByDate:      groupResponses(m.Bank, bankDate, bankResponse),
			CreditByDate:    groupResponses(m.Credit, creditDate, creditResponse),
			PurchasesByDate: groupResponses(m.Purchases, purchaseDate, ToPurchaseResponse),
			MissingDates:    missingDates,
		})
	}
}
