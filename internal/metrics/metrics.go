// Package metrics exposes ledger activity counters for Prometheus.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jana"

var (
	// result: created | duplicate
	FinanceEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "finance_entries_total",
		Help:      "Daily finance submissions by outcome.",
	}, []string{"result"})

	// kind: bank | credit
	LineItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "finance_line_items_total",
		Help:      "Bank and staff credit line items stored with finance entries.",
	}, []string{"kind"})

	Purchases = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Wholesaler purchase rows stored.",
	})

	DayDeletions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "finance_day_deletions_total",
		Help:      "Owner deletions of a finance day.",
	})
)

// Handler serves the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
