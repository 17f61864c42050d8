package report

import (
	"fmt"

	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/finance"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary   = "Summary"
	SheetDaily     = "Daily"
	SheetPurchases = "Purchases"
)

var dailyHeadings = []any{
	"Date", "Previous balance", "Sale of day", "Credit received", "Money from bank",
	"Other income", "Staff salary", "Credit paid out", "Other expenditure",
	"Google Pay", "Total income", "Total expenditure", "Balance",
}

var purchaseHeadings = []any{
	"Date", "Wholesaler", "Bill number", "Previous credit", "Bill amount", "Paid amount", "Credit left",
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Workbook lays a month out over three sheets: headline totals, one row per
// finance day and one row per purchase.
func Workbook(m *finance.Month) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	for _, name := range []string{SheetDaily, SheetPurchases} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, errors.Wrapf(err, "add sheet %s", name)
		}
	}

	t := m.Totals()
	summaryRows := [][]any{
		{"Period", fmt.Sprintf("%04d-%02d", m.Period.Year, int(m.Period.Month))},
		{"Total income", amount(t.TotalIncome)},
		{"Total expenditure", amount(t.TotalExpenditure)},
		{"Staff salary", amount(t.TotalStaffSalary)},
		{"Google Pay", amount(t.TotalGooglePay)},
		{"Other income", amount(t.TotalOtherIncome)},
		{"Other expenses", amount(t.TotalOtherExpenses)},
		{"Total purchase", amount(t.TotalPurchase)},
		{"Paid to wholesalers", amount(t.TotalPaid)},
		{"Credit left", amount(t.TotalCreditLeft)},
		{"Closing balance", amount(m.ClosingBalance())},
	}
	for i, row := range summaryRows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, SheetDaily, 1, dailyHeadings); err != nil {
		return nil, err
	}
	for i, d := range m.Finance {
		row := []any{
			dates.Format(d.Date),
			amount(d.PreviousDayBalance),
			amount(d.SaleOfDay),
			amount(d.CreditReceived),
			amount(d.MoneyFromBank),
			amount(d.OtherIncome),
			amount(d.StaffSalary),
			amount(d.CreditPaidOut),
			amount(d.OtherExpenditure),
			amount(d.GooglePayIncome),
			amount(d.TotalIncome),
			amount(d.TotalExpenditure),
			amount(d.Balance),
		}
		if err := setRow(f, SheetDaily, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, SheetPurchases, 1, purchaseHeadings); err != nil {
		return nil, err
	}
	for i, p := range m.Purchases {
		row := []any{
			dates.Format(p.Date),
			p.Wholesaler.Name,
			p.BillNumber,
			amount(p.PreviousCredit),
			amount(p.BillAmount),
			amount(p.PaidAmount),
			amount(p.CreditLeft),
		}
		if err := setRow(f, SheetPurchases, i+2, row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "write %s row %d", sheet, rowNo)
	}
	return nil
}
