package finance

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lijinmangal/janananma/internal/auth"
	"github.com/lijinmangal/janananma/internal/database/dbtest"
	"github.com/lijinmangal/janananma/internal/dates"
	"github.com/lijinmangal/janananma/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T, db *gorm.DB, role models.UserRole) *fiber.App {
	t.Helper()

	user := models.User{Name: "Test " + string(role), Email: string(role) + "@jana.test", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		c.Locals(auth.CtxUserRoleKey, role)
		return c.Next()
	})

	app.Get("/daily-finance/form", EntryFormHandler())
	app.Post("/daily-finance", CreateEntryHandler())
	app.Get("/daily-finance/:id", GetEntryHandler())
	app.Delete("/daily-finance/:date", DeleteByDateHandler())
	app.Get("/summary", OwnerDashboardHandler())
	app.Get("/finance-summary", ManagerSummaryHandler())
	return app
}

func freezeToday(t *testing.T, today time.Time) {
	t.Helper()
	prevNow, prevLoc := dates.Now, dates.Location
	dates.Now = func() time.Time { return today }
	dates.Location = time.UTC
	t.Cleanup(func() { dates.Now, dates.Location = prevNow, prevLoc })
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func entryForm(date string) url.Values {
	return url.Values{
		"date":                {date},
		"previous_balance":    {"500"},
		"sale_of_day":         {"1000"},
		"salary_lijin":        {"300"},
		"sip":                 {"50"},
		"transaction_type[]":  {"Income", "Expenditure"},
		"amount[]":            {"0", "200"},
		"description[]":       {"x", "y"},
		"credit_given_kannan": {"25"},
	}
}

func TestCreateEntryHandler(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleManager)

	status, body := do(t, app, postForm("/daily-finance", entryForm("2025-03-14")))
	require.Equal(t, fiber.StatusCreated, status, body)

	finance := body["finance"].(map[string]any)
	assert.Equal(t, "2025-03-14", finance["date"])
	assert.Equal(t, "1500.00", finance["total_income"])
	assert.Equal(t, "350.00", finance["total_expenditure"])
	assert.Equal(t, "1150.00", finance["balance"])
	assert.Len(t, body["bank_transactions"], 1)
	assert.Equal(t, map[string]any{"Kannan": "25.00"}, body["credit_by_staff"])

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.EntityDailyFinance, logs[0].EntityType)
	assert.Equal(t, models.AuditActionCreate, logs[0].Action)
}

func TestCreateEntryHandlerDuplicateIsConflict(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleManager)

	status, _ := do(t, app, postForm("/daily-finance", entryForm("2025-03-14")))
	require.Equal(t, fiber.StatusCreated, status)

	status, body := do(t, app, postForm("/daily-finance", entryForm("2025-03-14")))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body["error"], "2025-03-14")

	var n int64
	require.NoError(t, db.Model(&models.DailyFinance{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateEntryHandlerDefaultsToToday(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleManager)

	form := entryForm("")
	form.Del("date")
	status, body := do(t, app, postForm("/daily-finance", form))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "2025-03-15", body["finance"].(map[string]any)["date"])
}

func TestCreateEntryHandlerRejectsBadInput(t *testing.T) {
	db := dbtest.Setup(t)
	app := newTestApp(t, db, models.RoleManager)

	status, _ := do(t, app, postForm("/daily-finance", url.Values{"date": {"14/03/2025"}}))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := do(t, app, postForm("/daily-finance", url.Values{"date": {"2025-03-14"}, "sip": {"-5"}}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "sip")
}

func TestCreateEntryHandlerRejectsAmountsTooLargeToStore(t *testing.T) {
	db := dbtest.Setup(t)
	app := newTestApp(t, db, models.RoleManager)

	for _, form := range []url.Values{
		{"date": {"2025-03-14"}, "sale_of_day": {"1e100000000"}},
		{"date": {"2025-03-14"}, "sale_of_day": {"99999999999"}},
		{"date": {"2025-03-14"}, "sale_of_day": {"6000000000"}, "black_purse": {"6000000000"}},
	} {
		status, body := do(t, app, postForm("/daily-finance", form))
		assert.Equal(t, fiber.StatusBadRequest, status, form.Encode())
		assert.Contains(t, body["error"], "10,000,000,000", form.Encode())
	}

	assert.Zero(t, count(t, db, &models.DailyFinance{}))
}

func TestCreateEntryHandlerTakesDateFromQuery(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleManager)

	form := entryForm("")
	form.Del("date")
	status, body := do(t, app, postForm("/daily-finance?date=2025-03-10", form))
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "2025-03-10", body["finance"].(map[string]any)["date"])

	// a date in the body wins over the query
	status, body = do(t, app, postForm("/daily-finance?date=2025-03-10", entryForm("2025-03-11")))
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "2025-03-11", body["finance"].(map[string]any)["date"])

	status, _ = do(t, app, postForm("/daily-finance?date=10-03-2025", form))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestEntryFormHandler(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleManager)

	status, _ := do(t, app, postForm("/daily-finance", entryForm("2025-03-14")))
	require.Equal(t, fiber.StatusCreated, status)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/daily-finance/form", nil))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "2025-03-15", body["date"])
	assert.Equal(t, "1150.00", body["previous_balance"])
	assert.Len(t, body["staff"], 6)
	outstanding := body["outstanding_credit"].(map[string]any)
	assert.Equal(t, "25.00", outstanding["Kannan"])
	assert.Equal(t, "0.00", outstanding["Others"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/daily-finance/form?date=2025-03-14", nil))
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestGetEntryHandler(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleManager)

	_, created := do(t, app, postForm("/daily-finance", entryForm("2025-03-14")))
	id := created["finance"].(map[string]any)["id"].(float64)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/daily-finance/"+strconv.FormatUint(uint64(id), 10), nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "1150.00", body["finance"].(map[string]any)["balance"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/daily-finance/999", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDeleteByDateHandler(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(15))
	app := newTestApp(t, db, models.RoleOwner)

	status, _ := do(t, app, postForm("/daily-finance", entryForm("2025-03-14")))
	require.Equal(t, fiber.StatusCreated, status)

	status, body := do(t, app, httptest.NewRequest(http.MethodDelete, "/daily-finance/2025-03-14", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["finance_deleted"])
	assert.EqualValues(t, 1, body["bank_transactions_deleted"])
	assert.EqualValues(t, 1, body["credit_transactions_deleted"])

	var deletion models.AuditLog
	require.NoError(t, db.Where("action = ?", models.AuditActionDelete).First(&deletion).Error)
	assert.Contains(t, deletion.BeforeData, "2025-03-14")

	status, body = do(t, app, httptest.NewRequest(http.MethodDelete, "/daily-finance/2025-03-14", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 0, body["finance_deleted"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/daily-finance/yesterday", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSummaryHandlers(t *testing.T) {
	db := dbtest.Setup(t)
	freezeToday(t, day(5))
	app := newTestApp(t, db, models.RoleOwner)

	for _, d := range []string{"2025-03-02", "2025-03-04"} {
		status, _ := do(t, app, postForm("/daily-finance", entryForm(d)))
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/summary?month=3&year=2025", nil))
	require.Equal(t, fiber.StatusOK, status, body)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "2000.00", summary["total_income"])
	assert.Equal(t, "700.00", summary["total_expenditure"])
	entries := body["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-03-02", entries[0].(map[string]any)["date"])
	assert.Len(t, body["bank_by_date"], 2)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/finance-summary", nil))
	require.Equal(t, fiber.StatusOK, status, body)
	entries = body["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-03-04", entries[0].(map[string]any)["date"])
	assert.Equal(t, []any{"2025-03-01", "2025-03-03", "2025-03-05"}, body["missing_dates"])
	assert.Len(t, body["credit_by_date"], 2)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/summary?month=13&year=2025", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/summary?month=march", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}
