package report

import (
	"fmt"
	"strconv"

	"github.com/lijinmangal/janananma/internal/audit"
	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/finance"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"
	"github.com/lijinmangal/janananma/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CreateSummaryRequest struct {
	Year  int `json:"year" validate:"required"`
	Month int `json:"month" validate:"required"`
}

type SummaryResponse struct {
	ID               uint   `json:"id"`
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	GeneratedAt      string `json:"generated_at"`
	TotalIncome      string `json:"total_income"`
	TotalExpenditure string `json:"total_expenditure"`
	TotalPurchase    string `json:"total_purchase"`
	TotalCreditPaid  string `json:"total_credit_paid"`
	TotalCreditLeft  string `json:"total_credit_left"`
	TotalGooglePay   string `json:"total_google_pay"`
	ClosingBalance   string `json:"closing_balance"`
}

func toResponse(s models.MonthlySummary) SummaryResponse {
	return SummaryResponse{
		ID:               s.ID,
		Year:             s.Year,
		Month:            s.Month,
		GeneratedAt:      s.GeneratedAt.Format("2006-01-02 15:04:05"),
		TotalIncome:      money.Format(s.TotalIncome),
		TotalExpenditure: money.Format(s.TotalExpenditure),
		TotalPurchase:    money.Format(s.TotalPurchase),
		TotalCreditPaid:  money.Format(s.TotalCreditPaid),
		TotalCreditLeft:  money.Format(s.TotalCreditLeft),
		TotalGooglePay:   money.Format(s.TotalGooglePay),
		ClosingBalance:   money.Format(s.ClosingBalance),
	}
}

// -------------------------------------------------
// POST /api/owner/monthly-summaries
// -------------------------------------------------
func CreateSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSummaryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		p, err := finance.NewPeriod(body.Year, body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := CreateSummary(database.DB, p)
		if errors.Is(err, ErrSummaryExists) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			logger.Error("monthly summary could not be created", "year", p.Year, "month", int(p.Month), "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "monthly summary could not be created")
		}

		resp := toResponse(*s)
		audit.Record(c, audit.LogOptions{
			EntityType:  models.EntityMonthlySummary,
			EntityID:    s.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Monthly summary %04d-%02d generated", s.Year, s.Month),
			After:       resp,
		})

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/owner/monthly-summaries
// -------------------------------------------------
func ListSummariesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := ListSummaries(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "monthly summaries could not be listed")
		}

		resp := make([]SummaryResponse, 0, len(list))
		for _, s := range list {
			resp = append(resp, toResponse(s))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/owner/monthly-summaries/:id
// -------------------------------------------------
func GetSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid summary id")
		}

		s, err := GetSummary(database.DB, uint(id))
		if errors.Is(err, ErrSummaryNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "monthly summary could not be loaded")
		}
		return c.JSON(toResponse(*s))
	}
}

// -------------------------------------------------
// GET /api/owner/summary/export?month=1&year=2025
// -------------------------------------------------
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := finance.PeriodFromQuery(c)
		if err != nil {
			return err
		}

		m, err := finance.LoadMonth(database.DB, p)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "month could not be loaded")
		}

		f, err := Workbook(m)
		if err != nil {
			logger.Error("workbook could not be built", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			logger.Error("workbook could not be written", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="jana-%04d-%02d.xlsx"`, p.Year, int(p.Month)))
		return c.Send(buf.Bytes())
	}
}
