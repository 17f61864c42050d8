package audit

import (
	"strconv"

	"github.com/lijinmangal/janananma/internal/auth"
	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

const defaultListLimit = 100

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uint              `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

func toResponse(l models.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:          l.ID,
		CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
		UserID:      l.UserID,
		UserName:    l.UserName,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Action:      l.Action,
		Description: l.Description,
		IsUndone:    l.IsUndone,
		UndoneBy:    l.UndoneBy,
	}
	if l.UndoneAt != nil {
		s := l.UndoneAt.Format("2006-01-02 15:04:05")
		resp.UndoneAt = &s
	}
	return resp
}

func queryUint(c *fiber.Ctx, key string) (uint, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false, fiber.NewError(fiber.StatusBadRequest, key+" must be a positive integer")
	}
	return uint(v), true, nil
}

// GET /api/owner/audit-logs?entity_type=purchase&entity_id=1&user_id=2&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if id, ok, err := queryUint(c, "entity_id"); err != nil {
			return err
		} else if ok {
			dbq = dbq.Where("entity_id = ?", id)
		}
		if id, ok, err := queryUint(c, "user_id"); err != nil {
			return err
		} else if ok {
			dbq = dbq.Where("user_id = ?", id)
		}

		limit := c.QueryInt("limit", defaultListLimit)
		if limit <= 0 || limit > 500 {
			limit = defaultListLimit
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at desc, id desc").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "audit logs could not be listed")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, toResponse(l))
		}
		return c.JSON(resp)
	}
}

// POST /api/owner/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid audit log id")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		err = UndoLog(uint(id), user.ID, user.Name)
		switch {
		case err == nil:
		case errors.Is(err, ErrLogNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUndoBlocked):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			logger.Error("undo failed", "audit_log_id", id, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "undo failed")
		}

		logger.Info("audit log undone", "audit_log_id", id, "user_id", user.ID)
		return c.JSON(fiber.Map{"message": "undone"})
	}
}

// Record writes a log entry for the requesting user. A failed write is logged
// and never fails the request.
func Record(c *fiber.Ctx, opts LogOptions) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		logger.Warn("audit log skipped, user unknown", "entity_type", opts.EntityType, "entity_id", opts.EntityID)
		return
	}
	opts.UserID = user.ID
	opts.UserName = user.Name
	if err := WriteLog(opts); err != nil {
		logger.Warn("audit log could not be written", "entity_type", opts.EntityType, "entity_id", opts.EntityID, "error", err)
	}
}
