package main

import (
	"github.com/lijinmangal/janananma/internal/audit"
	"github.com/lijinmangal/janananma/internal/auth"
	"github.com/lijinmangal/janananma/internal/config"
	"github.com/lijinmangal/janananma/internal/dashboard"
	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/finance"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/metrics"
	"github.com/lijinmangal/janananma/internal/models"
	"github.com/lijinmangal/janananma/internal/purchase"
	"github.com/lijinmangal/janananma/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.LogEnv); err != nil {
		logger.Warn("logger config rejected, keeping defaults", "error", err)
	}
	defer logger.Sync()

	dates.Location = cfg.Location
	database.Init(cfg)

	app := NewApp(cfg)

	logger.Info("server starting", "port", cfg.HTTPPort, "timezone", cfg.Timezone)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	logger.Error("unexpected error",
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected server error",
	})
}

// NewApp builds the HTTP app with every route mounted.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/wholesalers", purchase.ListWholesalersHandler())
	protected.Get("/dashboard/balance-chart", dashboard.BalanceChartHandler())

	// Owner routes
	owner := protected.Group("/owner")
	owner.Use(auth.RequireRole(models.RoleOwner))

	owner.Get("/summary", finance.OwnerDashboardHandler())
	owner.Get("/summary/export", report.ExportHandler())
	owner.Delete("/daily-finance/:date", finance.DeleteByDateHandler())

	owner.Post("/wholesalers", purchase.CreateWholesalerHandler())

	owner.Post("/managers", auth.CreateManagerHandler())
	owner.Get("/managers", auth.ListManagersHandler())

	owner.Post("/monthly-summaries", report.CreateSummaryHandler())
	owner.Get("/monthly-summaries", report.ListSummariesHandler())
	owner.Get("/monthly-summaries/:id", report.GetSummaryHandler())

	owner.Get("/audit-logs", audit.ListAuditLogsHandler())
	owner.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Manager routes; the owner may read them too
	manager := protected.Group("/manager")
	manager.Use(auth.RequireRole(models.RoleManager, models.RoleOwner))

	manager.Get("/finance-summary", finance.ManagerSummaryHandler())
	manager.Get("/daily-finance/form", finance.EntryFormHandler())
	manager.Get("/daily-finance/:id", finance.GetEntryHandler())
	manager.Get("/purchase/form", purchase.EntryFormHandler())

	managerOnly := auth.RequireRole(models.RoleManager)
	manager.Post("/daily-finance", managerOnly, finance.CreateEntryHandler())
	manager.Post("/purchase", managerOnly, purchase.CreatePurchasesHandler())

	return app
}
