package dashboard

import (
	"strconv"
	"time"

	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

const maxCount = 366

func (p Period) defaultCount() int {
	switch p {
	case Weekly:
		return 8
	case Monthly:
		return 12
	default:
		return 7
	}
}

// bucket maps a date onto the first day of its bucket.
func (p Period) bucket(d time.Time) time.Time {
	switch p {
	case Weekly:
		return dates.WeekStart(d)
	case Monthly:
		return dates.MonthStart(d)
	default:
		return dates.Normalize(d)
	}
}

func (p Period) step(d time.Time) time.Time {
	switch p {
	case Weekly:
		return d.AddDate(0, 0, 7)
	case Monthly:
		return d.AddDate(0, 1, 0)
	default:
		return d.AddDate(0, 0, 1)
	}
}

func (p Period) back(d time.Time, n int) time.Time {
	switch p {
	case Weekly:
		return d.AddDate(0, 0, -7*n)
	case Monthly:
		return d.AddDate(0, -n, 0)
	default:
		return d.AddDate(0, 0, -n)
	}
}

type Point struct {
	Label       string // first day of the bucket
	Sales       decimal.Decimal
	Expenditure decimal.Decimal
	// balance of the bucket's last entered day; nil when nothing was entered
	ClosingBalance *decimal.Decimal
	Entries        int
}

type Series struct {
	Period Period
	From   time.Time
	To     time.Time
	Points []Point
}

// BuildSeries covers count buckets ending with the one holding today. Every
// bucket is present, empty ones with zero totals.
func BuildSeries(db *gorm.DB, period Period, count int, today time.Time) (*Series, error) {
	end := dates.Normalize(today)
	start := period.back(period.bucket(end), count-1)

	var rows []models.DailyFinance
	err := db.Select("date", "sale_of_day", "total_expenditure", "balance").
		Where("date >= ? AND date <= ?", start, end).
		Order("date asc").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "load finance entries")
	}

	points := make([]Point, 0, count)
	index := make(map[string]int, count)
	for b := start; !b.After(end); b = period.step(b) {
		index[dates.Format(b)] = len(points)
		points = append(points, Point{Label: dates.Format(b)})
	}

	for _, r := range rows {
		i, ok := index[dates.Format(period.bucket(r.Date))]
		if !ok {
			continue
		}
		pt := &points[i]
		pt.Sales = pt.Sales.Add(r.SaleOfDay)
		pt.Expenditure = pt.Expenditure.Add(r.TotalExpenditure)
		bal := r.Balance
		pt.ClosingBalance = &bal
		pt.Entries++
	}

	return &Series{Period: period, From: start, To: end, Points: points}, nil
}

type PointResponse struct {
	Label          string  `json:"label"`
	Sales          string  `json:"sales"`
	Expenditure    string  `json:"expenditure"`
	ClosingBalance *string `json:"closing_balance"`
	Entries        int     `json:"entries"`
}

type BalanceChartResponse struct {
	Period           Period          `json:"period"`
	From             string          `json:"from"`
	To               string          `json:"to"`
	Points           []PointResponse `json:"points"`
	TotalSales       string          `json:"total_sales"`
	TotalExpenditure string          `json:"total_expenditure"`
}

// GET /api/dashboard/balance-chart?period=daily&count=7
func BalanceChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := Period(c.Query("period", string(Daily)))
		switch period {
		case Daily, Weekly, Monthly:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "period must be daily, weekly or monthly")
		}

		count := period.defaultCount()
		if raw := c.Query("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > maxCount {
				return fiber.NewError(fiber.StatusBadRequest, "count must be between 1 and 366")
			}
			count = n
		}

		series, err := BuildSeries(database.DB, period, count, dates.Today())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "chart data could not be loaded")
		}

		resp := BalanceChartResponse{
			Period: series.Period,
			From:   dates.Format(series.From),
			To:     dates.Format(series.To),
			Points: make([]PointResponse, 0, len(series.Points)),
		}
		sales, expenditure := decimal.Zero, decimal.Zero
		for _, p := range series.Points {
			pr := PointResponse{
				Label:       p.Label,
				Sales:       money.Format(p.Sales),
				Expenditure: money.Format(p.Expenditure),
				Entries:     p.Entries,
			}
			if p.ClosingBalance != nil {
				s := money.Format(*p.ClosingBalance)
				pr.ClosingBalance = &s
			}
			resp.Points = append(resp.Points, pr)
			sales = sales.Add(p.Sales)
			expenditure = expenditure.Add(p.Expenditure)
		}
		resp.TotalSales = money.Format(sales)
		resp.TotalExpenditure = money.Format(expenditure)

		return c.JSON(resp)
	}
}
