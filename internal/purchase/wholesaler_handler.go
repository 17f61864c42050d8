package purchase

import (
	"fmt"

	"github.com/lijinmangal/janananma/internal/audit"
	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type CreateWholesalerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type WholesalerResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// -------------------------------------------------
// POST /api/owner/wholesalers
// -------------------------------------------------
func CreateWholesalerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWholesalerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		w, err := CreateWholesaler(database.DB, body.Name)
		switch {
		case err == nil:
		case errors.Is(err, ErrWholesalerNameEmpty):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrWholesalerExists):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			logger.Error("wholesaler could not be created", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "wholesaler could not be created")
		}

		resp := WholesalerResponse{ID: w.ID, Name: w.Name}
		audit.Record(c, audit.LogOptions{
			EntityType:  models.EntityWholesaler,
			EntityID:    w.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Wholesaler %s added", w.Name),
			After:       resp,
		})

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/wholesalers
// -------------------------------------------------
func ListWholesalersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := ListWholesalers(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wholesalers could not be listed")
		}

		resp := make([]WholesalerResponse, 0, len(ws))
		for _, w := range ws {
			resp = append(resp, WholesalerResponse{ID: w.ID, Name: w.Name})
		}
		return c.JSON(resp)
	}
}
