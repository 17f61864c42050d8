package finance

import (
	"fmt"
	"strconv"

	"github.com/lijinmangal/janananma/internal/audit"
	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/metrics"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"
	"github.com/lijinmangal/janananma/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type EntryFormResponse struct {
	Date              string            `json:"date"`
	PreviousBalance   string            `json:"previous_balance"`
	Staff             []string          `json:"staff"`
	CreditStaff       []string          `json:"credit_staff"`
	OutstandingCredit map[string]string `json:"outstanding_credit"`
}

type BankTransactionResponse struct {
	ID          uint                       `json:"id"`
	Date        string                     `json:"date"`
	Type        models.BankTransactionType `json:"transaction_type"`
	Amount      string                     `json:"amount"`
	Description string                     `json:"description"`
}

type CreditTransactionResponse struct {
	ID          uint   `json:"id"`
	Date        string `json:"date"`
	StaffName   string `json:"staff_name"`
	CreditGiven string `json:"credit_given"`
}

type FinanceResponse struct {
	ID                 uint   `json:"id"`
	Date               string `json:"date"`
	PreviousDayBalance string `json:"previous_day_balance"`
	ExtraCash          string `json:"extra_cash"`
	MoneyFromBank      string `json:"money_from_bank"`
	CreditReceived     string `json:"credit_received"`
	CreditGiven        string `json:"credit_given"`
	GooglePayIncome    string `json:"google_pay_income"`
	SaleOfDay          string `json:"sale_of_day"`
	OtherIncome        string `json:"other_income"`
	OwnerIncome        string `json:"owner_income"`
	BlackPurse         string `json:"black_purse"`
	SipPaid            string `json:"sip_paid"`
	GokulamPaid        string `json:"gokulam_paid"`
	ChittyPaid         string `json:"chitty_paid"`
	OwnerExpenditure   string `json:"owner_expenditure"`
	StaffSalary        string `json:"staff_salary"`
	CreditPaidOut      string `json:"credit_paid_out"`
	CustomerCredit     string `json:"customer_credit"`
	OtherExpenditure   string `json:"other_expenditure"`
	MedicineReturn     string `json:"medicine_return"`
	PurchasePaid       string `json:"purchase_paid"`
	TotalIncome        string `json:"total_income"`
	TotalExpenditure   string `json:"total_expenditure"`
	Balance            string `json:"balance"`
}

type EntryResponse struct {
	Finance          FinanceResponse           `json:"finance"`
	BankTransactions []BankTransactionResponse `json:"bank_transactions"`
	CreditByStaff    map[string]string         `json:"credit_by_staff"`
}

func toFinanceResponse(f models.DailyFinance) FinanceResponse {
	m := money.Format
	return FinanceResponse{
		ID:                 f.ID,
		Date:               dates.Format(f.Date),
		PreviousDayBalance: m(f.PreviousDayBalance),
		ExtraCash:          m(f.ExtraCash),
		MoneyFromBank:      m(f.MoneyFromBank),
		CreditReceived:     m(f.CreditReceived),
		CreditGiven:        m(f.CreditGiven),
		GooglePayIncome:    m(f.GooglePayIncome),
		SaleOfDay:          m(f.SaleOfDay),
		OtherIncome:        m(f.OtherIncome),
		OwnerIncome:        m(f.OwnerIncome),
		BlackPurse:         m(f.BlackPurse),
		SipPaid:            m(f.SipPaid),
		GokulamPaid:        m(f.GokulamPaid),
		ChittyPaid:         m(f.ChittyPaid),
		OwnerExpenditure:   m(f.OwnerExpenditure),
		StaffSalary:        m(f.StaffSalary),
		CreditPaidOut:      m(f.CreditPaidOut),
		CustomerCredit:     m(f.CustomerCredit),
		OtherExpenditure:   m(f.OtherExpenditure),
		MedicineReturn:     m(f.MedicineReturn),
		PurchasePaid:       m(f.PurchasePaid),
		TotalIncome:        m(f.TotalIncome),
		TotalExpenditure:   m(f.TotalExpenditure),
		Balance:            m(f.Balance),
	}
}

func toBankResponses(rows []models.BankTransaction) []BankTransactionResponse {
	out := make([]BankTransactionResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, BankTransactionResponse{
			ID:          b.ID,
			Date:        dates.Format(b.Date),
			Type:        b.Type,
			Amount:      money.Format(b.Amount),
			Description: b.Description,
		})
	}
	return out
}

func toCreditResponses(rows []models.CreditTransaction) []CreditTransactionResponse {
	out := make([]CreditTransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CreditTransactionResponse{
			ID:          r.ID,
			Date:        dates.Format(r.Date),
			StaffName:   r.StaffName,
			CreditGiven: money.Format(r.CreditGiven),
		})
	}
	return out
}

func formatAmounts(in map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = money.Format(v)
	}
	return out
}

func entryExistsError(date string) error {
	return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("a finance entry for %s already exists", date))
}

// -------------------------------------------------
// GET /api/manager/daily-finance/form?date=2025-01-31
// -------------------------------------------------
func EntryFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := dates.ParseOrToday(c.Query("date"))

		exists, err := EntryExists(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "finance entries could not be checked")
		}
		if exists {
			return entryExistsError(dates.Format(date))
		}

		prev, err := PreviousDayBalance(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "previous balance could not be loaded")
		}

		credit, err := OutstandingCredit(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "staff credit could not be loaded")
		}

		return c.JSON(EntryFormResponse{
			Date:              dates.Format(date),
			PreviousBalance:   money.Format(prev),
			Staff:             Roster(),
			CreditStaff:       CreditStaff,
			OutstandingCredit: formatAmounts(credit),
		})
	}
}

// -------------------------------------------------
// POST /api/manager/daily-finance (form body)
// -------------------------------------------------
func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := validation.FormValues(c)
		if err != nil {
			return err
		}

		in := ParseForm(form)
		in.Date = dates.Today()
		// the entry page posts back to its own ?date= URL
		raw := form.Get("date")
		if raw == "" {
			raw = c.Query("date")
		}
		if raw != "" {
			d, err := dates.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			in.Date = d
		}

		snap, err := CreateEntry(database.DB, in)
		switch {
		case err == nil:
		case errors.Is(err, ErrEntryExists):
			metrics.FinanceEntries.WithLabelValues("duplicate").Inc()
			logger.Warn("duplicate finance entry rejected", "date", dates.Format(in.Date))
			return entryExistsError(dates.Format(in.Date))
		case errors.Is(err, ErrNegativeAmount), errors.Is(err, money.ErrAmountTooLarge):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			logger.Error("finance entry could not be stored", "date", dates.Format(in.Date), "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "finance entry could not be stored")
		}

		metrics.FinanceEntries.WithLabelValues("created").Inc()
		metrics.LineItems.WithLabelValues("bank").Add(float64(len(snap.BankTransactions)))
		metrics.LineItems.WithLabelValues("credit").Add(float64(len(snap.CreditTransactions)))

		audit.Record(c, audit.LogOptions{
			EntityType:  models.EntityDailyFinance,
			EntityID:    snap.Finance.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Finance entry for %s, balance %s", dates.Format(in.Date), money.Format(snap.Finance.Balance)),
			After:       snap,
		})

		return c.Status(fiber.StatusCreated).JSON(EntryResponse{
			Finance:          toFinanceResponse(snap.Finance),
			BankTransactions: toBankResponses(snap.BankTransactions),
			CreditByStaff:    creditByStaff(snap.CreditTransactions),
		})
	}
}

func creditByStaff(rows []models.CreditTransaction) map[string]string {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rows {
		sums[r.StaffName] = sums[r.StaffName].Add(r.CreditGiven)
	}
	return formatAmounts(sums)
}

// -------------------------------------------------
// GET /api/manager/daily-finance/:id
// -------------------------------------------------
func GetEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid finance entry id")
		}

		snap, err := LoadDay(database.DB, uint(id))
		if errors.Is(err, ErrEntryNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "finance entry could not be loaded")
		}

		return c.JSON(EntryResponse{
			Finance:          toFinanceResponse(snap.Finance),
			BankTransactions: toBankResponses(snap.BankTransactions),
			CreditByStaff:    creditByStaff(snap.CreditTransactions),
		})
	}
}

// -------------------------------------------------
// DELETE /api/owner/daily-finance/:date
// -------------------------------------------------
func DeleteByDateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := dates.Parse(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		result, err := DeleteByDate(database.DB, date)
		if err != nil {
			logger.Error("finance day could not be deleted", "date", dates.Format(date), "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "finance day could not be deleted")
		}

		metrics.DayDeletions.Inc()
		logger.Info("finance day deleted",
			"date", dates.Format(date),
			"finance", result.FinanceDeleted,
			"bank", result.BankDeleted,
			"credit", result.CreditDeleted,
		)

		if result.Snapshot != nil {
			audit.Record(c, audit.LogOptions{
				EntityType:  models.EntityDailyFinance,
				EntityID:    result.Snapshot.Finance.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Finance day %s deleted", dates.Format(date)),
				Before:      result.Snapshot,
			})
		}

		return c.JSON(fiber.Map{
			"date":                        dates.Format(date),
			"finance_deleted":             result.FinanceDeleted,
			"bank_transactions_deleted":   result.BankDeleted,
			"credit_transactions_deleted": result.CreditDeleted,
		})
	}
}
