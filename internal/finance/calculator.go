package finance

import (
	"net/url"
	"strings"
	"time"

	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Staff is a column of the paper ledger. The roster is fixed.
type Staff int

const (
	Amila Staff = iota
	Ashwati
	Athira
	Arun
	Lijin
	Kannan
	staffCount
)

var staffNames = [staffCount]string{"Amila", "Ashwati", "Athira", "Arun", "Lijin", "Kannan"}

func (s Staff) String() string { return staffNames[s] }

func (s Staff) formKey() string { return strings.ToLower(staffNames[s]) }

// Roster lists the staff in ledger column order.
func Roster() []string {
	return append([]string(nil), staffNames[:]...)
}

// CreditStaff is everyone a credit line item can be written against.
var CreditStaff = []string{"Ashwati", "Athira", "Amila", "Arun", "Lijin", "Kannan", "Others"}

// StaffAmounts holds one amount per staff column.
type StaffAmounts [staffCount]decimal.Decimal

func (a StaffAmounts) Total() decimal.Decimal {
	return money.Sum(a[:]...)
}

type BankLine struct {
	Type        models.BankTransactionType
	Amount      decimal.Decimal
	Description string
}

type CreditLine struct {
	StaffName string
	Amount    decimal.Decimal
}

// Input is one day's submission, field for field as on the paper sheet.
// Absent values are zero.
type Input struct {
	Date time.Time

	PreviousBalance decimal.Decimal
	ExtraCash       decimal.Decimal
	CreditPaid      StaffAmounts // staff repaying credit
	OwnerIncome     decimal.Decimal
	BlackPurse      decimal.Decimal
	OtherIncome     decimal.Decimal
	MoneyFromBank   decimal.Decimal
	SaleOfDay       decimal.Decimal

	Sip              decimal.Decimal
	Gokulam          decimal.Decimal
	Vijesh           decimal.Decimal // chitty
	OwnerExpenditure decimal.Decimal
	Salary           StaffAmounts
	CreditTo         StaffAmounts
	CustomerCredit   decimal.Decimal
	OtherExpenditure decimal.Decimal
	MedicinePurchase decimal.Decimal
	GPayToBank       decimal.Decimal

	BankLines   []BankLine
	CreditLines []CreditLine

	// first amount ParseForm could not accept, reported by Validate
	parseErr error
}

type Totals struct {
	Income      decimal.Decimal
	Expenditure decimal.Decimal
	Balance     decimal.Decimal
}

func (in Input) TotalIncome() decimal.Decimal {
	return money.Sum(
		in.PreviousBalance,
		in.ExtraCash,
		in.CreditPaid.Total(),
		in.OwnerIncome,
		in.BlackPurse,
		in.OtherIncome,
		in.MoneyFromBank,
		in.SaleOfDay,
	)
}

func (in Input) TotalExpenditure() decimal.Decimal {
	return money.Sum(
		in.Sip,
		in.Gokulam,
		in.Vijesh,
		in.OwnerExpenditure,
		in.Salary.Total(),
		in.CreditTo.Total(),
		in.CustomerCredit,
		in.OtherExpenditure,
		in.MedicinePurchase,
		in.GPayToBank,
	)
}

func (in Input) Totals() Totals {
	income := in.TotalIncome().Round(2)
	expenditure := in.TotalExpenditure().Round(2)
	return Totals{
		Income:      income,
		Expenditure: expenditure,
		Balance:     income.Sub(expenditure),
	}
}

var ErrNegativeAmount = errors.New("amount cannot be negative")

type namedAmount struct {
	name  string
	value decimal.Decimal
}

// categories lists the typed category fields in form order.
func (in Input) categories() []namedAmount {
	fields := []namedAmount{
		{"extra_cash", in.ExtraCash},
		{"raajeev_income", in.OwnerIncome},
		{"black_purse", in.BlackPurse},
		{"other_income", in.OtherIncome},
		{"money_from_bank", in.MoneyFromBank},
		{"sale_of_day", in.SaleOfDay},
		{"sip", in.Sip},
		{"gokulam", in.Gokulam},
		{"vijesh", in.Vijesh},
		{"raajeev_expenditure", in.OwnerExpenditure},
		{"customer_credit", in.CustomerCredit},
		{"other_expenditure", in.OtherExpenditure},
		{"medicine_purchase", in.MedicinePurchase},
		{"gpay_to_bank", in.GPayToBank},
	}
	for s := Staff(0); s < staffCount; s++ {
		fields = append(fields,
			namedAmount{"credit_paid_" + s.formKey(), in.CreditPaid[s]},
			namedAmount{"salary_" + s.formKey(), in.Salary[s]},
			namedAmount{"credit_to_" + s.formKey(), in.CreditTo[s]},
		)
	}
	return fields
}

// stored lists every amount written for the day, derived sums included.
func (in Input) stored() []namedAmount {
	fields := append([]namedAmount{{"previous_balance", in.PreviousBalance}}, in.categories()...)
	for _, l := range in.BankLines {
		fields = append(fields, namedAmount{"amount", l.Amount})
	}
	creditGiven := decimal.Zero
	for _, l := range in.CreditLines {
		fields = append(fields, namedAmount{"credit_given_" + strings.ToLower(l.StaffName), l.Amount})
		creditGiven = creditGiven.Add(l.Amount)
	}
	totals := in.Totals()
	return append(fields,
		namedAmount{"credit_received", in.CreditPaid.Total()},
		namedAmount{"staff_salary", in.Salary.Total()},
		namedAmount{"credit_paid_out", in.CreditTo.Total()},
		namedAmount{"credit_given", creditGiven},
		namedAmount{"total_income", totals.Income},
		namedAmount{"total_expenditure", totals.Expenditure},
		namedAmount{"balance", totals.Balance},
	)
}

// Validate rejects negative category amounts and any amount, typed or summed,
// that does not fit a ledger column. The carried balance may be negative when
// the till closed short. Fields are checked in form order.
func (in Input) Validate() error {
	if in.parseErr != nil {
		return in.parseErr
	}
	for _, f := range in.categories() {
		if f.value.IsNegative() {
			return errors.Wrap(ErrNegativeAmount, f.name)
		}
	}
	for _, f := range in.stored() {
		if err := money.CheckLimit(f.value); err != nil {
			return errors.Wrap(err, f.name)
		}
	}
	return nil
}

// ParseForm reads a submitted entry form. Category fields that are missing or
// unparsable count as zero; a bank or credit line item that does not parse to
// a positive amount is dropped on its own. An amount too large to store is
// kept back for Validate.
func ParseForm(form url.Values) Input {
	var parseErr error
	note := func(key string, err error) {
		if err != nil && parseErr == nil {
			parseErr = errors.Wrap(err, key)
		}
	}
	get := func(key string) decimal.Decimal {
		d, err := money.OrZero(form.Get(key))
		note(key, err)
		return d
	}

	in := Input{
		PreviousBalance:  get("previous_balance"),
		ExtraCash:        get("extra_cash"),
		OwnerIncome:      get("raajeev_income"),
		BlackPurse:       get("black_purse"),
		OtherIncome:      get("other_income"),
		SaleOfDay:        get("sale_of_day"),
		MoneyFromBank:    get("money_from_bank"),
		Sip:              get("sip"),
		Gokulam:          get("gokulam"),
		Vijesh:           get("vijesh"),
		OwnerExpenditure: get("raajeev_expenditure"),
		CustomerCredit:   get("customer_credit"),
		OtherExpenditure: get("other_expenditure"),
		MedicinePurchase: get("medicine_purchase"),
		GPayToBank:       get("gpay_to_bank"),
	}
	for s := Staff(0); s < staffCount; s++ {
		in.CreditPaid[s] = get("credit_paid_" + s.formKey())
		in.Salary[s] = get("salary_" + s.formKey())
		in.CreditTo[s] = get("credit_to_" + s.formKey())
	}

	types := formList(form, "transaction_type")
	amounts := formList(form, "amount")
	descriptions := formList(form, "description")
	n := min(len(types), len(amounts), len(descriptions))
	for i := 0; i < n; i++ {
		amount, ok, err := money.Positive(amounts[i])
		note("amount", err)
		if !ok {
			continue
		}
		t := models.BankTransactionType(strings.TrimSpace(types[i]))
		if !t.Valid() {
			continue
		}
		in.BankLines = append(in.BankLines, BankLine{
			Type:        t,
			Amount:      amount,
			Description: strings.TrimSpace(descriptions[i]),
		})
	}

	for _, name := range CreditStaff {
		key := "credit_given_" + strings.ToLower(name)
		amount, ok, err := money.Positive(form.Get(key))
		note(key, err)
		if !ok {
			continue
		}
		in.CreditLines = append(in.CreditLines, CreditLine{StaffName: name, Amount: amount})
	}

	in.parseErr = parseErr
	return in
}

// formList accepts both "amount" and the "amount[]" spelling browsers send for
// repeated inputs.
func formList(form url.Values, key string) []string {
	if v, ok := form[key+"[]"]; ok {
		return v
	}
	return form[key]
}

// Records maps the input onto the rows stored for the day.
func (in Input) Records() (models.DailyFinance, []models.BankTransaction, []models.CreditTransaction) {
	date := in.Date
	totals := in.Totals()

	bank := make([]models.BankTransaction, 0, len(in.BankLines))
	for _, l := range in.BankLines {
		bank = append(bank, models.BankTransaction{
			Date:        date,
			Type:        l.Type,
			Amount:      l.Amount,
			Description: l.Description,
		})
	}

	credit := make([]models.CreditTransaction, 0, len(in.CreditLines))
	creditGiven := decimal.Zero
	for _, l := range in.CreditLines {
		credit = append(credit, models.CreditTransaction{
			Date:        date,
			StaffName:   l.StaffName,
			CreditGiven: l.Amount,
		})
		creditGiven = creditGiven.Add(l.Amount)
	}

	finance := models.DailyFinance{
		Date:               date,
		PreviousDayBalance: in.PreviousBalance,
		ExtraCash:          in.ExtraCash,
		MoneyFromBank:      in.MoneyFromBank,
		CreditReceived:     in.CreditPaid.Total(),
		CreditGiven:        creditGiven,
		GooglePayIncome:    in.GPayToBank,
		SaleOfDay:          in.SaleOfDay,
		OtherIncome:        in.OtherIncome,
		OwnerIncome:        in.OwnerIncome,
		BlackPurse:         in.BlackPurse,
		SipPaid:            in.Sip,
		GokulamPaid:        in.Gokulam,
		ChittyPaid:         in.Vijesh,
		OwnerExpenditure:   in.OwnerExpenditure,
		StaffSalary:        in.Salary.Total(),
		CreditPaidOut:      in.CreditTo.Total(),
		CustomerCredit:     in.CustomerCredit,
		OtherExpenditure:   in.OtherExpenditure,
		MedicineReturn:     in.MedicinePurchase,
		PurchasePaid:       decimal.Zero,
		TotalIncome:        totals.Income,
		TotalExpenditure:   totals.Expenditure,
		Balance:            totals.Balance,
	}

	return finance, bank, credit
}
