package purchase

import (
	"fmt"

	"github.com/lijinmangal/janananma/internal/audit"
	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/finance"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/metrics"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/money"
	"github.com/lijinmangal/janananma/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type FormWholesaler struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	PreviousCredit string `json:"previous_credit"`
	HasHistory     bool   `json:"has_history"`
}

type EntryFormResponse struct {
	Date        string           `json:"date"`
	Wholesalers []FormWholesaler `json:"wholesalers"`
}

type CreatePurchasesResponse struct {
	Date      string                     `json:"date"`
	Purchases []finance.PurchaseResponse `json:"purchases"`
}

// -------------------------------------------------
// GET /api/manager/purchase/form?date=2025-01-31
// -------------------------------------------------
func EntryFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := dates.ParseOrToday(c.Query("date"))

		wholesalers, err := ListWholesalers(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wholesalers could not be listed")
		}

		resp := EntryFormResponse{
			Date:        dates.Format(date),
			Wholesalers: make([]FormWholesaler, 0, len(wholesalers)),
		}
		for _, w := range wholesalers {
			prev, found, err := PreviousCredit(database.DB, w.ID, date)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "previous credit could not be loaded")
			}
			resp.Wholesalers = append(resp.Wholesalers, FormWholesaler{
				ID:             w.ID,
				Name:           w.Name,
				PreviousCredit: money.Format(prev),
				HasHistory:     found,
			})
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// POST /api/manager/purchase (form body)
// -------------------------------------------------
func CreatePurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := validation.FormValues(c)
		if err != nil {
			return err
		}

		date := dates.Today()
		if raw := form.Get("date"); raw != "" {
			d, err := dates.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			date = d
		}

		wholesalers, err := ListWholesalers(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wholesalers could not be listed")
		}

		lines, err := ParseForm(form, wholesalers)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		created, err := CreatePurchases(database.DB, date, lines)
		if errors.Is(err, ErrNegativeAmount) || errors.Is(err, money.ErrAmountTooLarge) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			logger.Error("purchases could not be stored", "date", dates.Format(date), "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "purchases could not be stored")
		}

		metrics.Purchases.Add(float64(len(created)))

		resp := CreatePurchasesResponse{
			Date:      dates.Format(date),
			Purchases: make([]finance.PurchaseResponse, 0, len(created)),
		}
		for _, p := range created {
			out := finance.ToPurchaseResponse(p)
			audit.Record(c, audit.LogOptions{
				EntityType:  models.EntityPurchase,
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Purchase %s from %s, credit left %s", p.BillNumber, p.Wholesaler.Name, out.CreditLeft),
				After:       out,
			})
			resp.Purchases = append(resp.Purchases, out)
		}

		status := fiber.StatusOK
		if len(created) > 0 {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(resp)
	}
}
