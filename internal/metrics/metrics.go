package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal              = prometheus.NewCounter(prometheus.CounterOpts{Name: "book_ticks_total", Help: "Book ticker updates received"})
	UnknownSymbolTicksTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "unknown_symbol_ticks_total", Help: "Ticks for symbols missing from the pair store"})
	GateSkipsTotal          = prometheus.NewCounter(prometheus.CounterOpts{Name: "gate_skips_total", Help: "Ticks dropped for decisions while an attempt was in flight"})
	TrianglesCheckedTotal   = prometheus.NewCounter(prometheus.CounterOpts{Name: "triangles_checked_total", Help: "Triangles evaluated for profitability"})
	OpportunitiesTotal      = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "opportunities_total", Help: "Opportunities crossing the profit threshold"}, []string{"direction"})
	AttemptsTotal           = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "attempts_total", Help: "Execution attempts by terminal outcome"}, []string{"outcome"})
	OrdersSubmittedTotal    = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_submitted_total", Help: "Orders submitted by type"}, []string{"type"})
	OrdersExpiredTotal      = prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_expired_total", Help: "Fill-or-kill orders cancelled unfilled"})
	OrdersRejectedTotal     = prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_rejected_total", Help: "Orders rejected by the venue"})
	WSReconnectsTotal       = prometheus.NewCounter(prometheus.CounterOpts{Name: "ws_reconnects_total", Help: "Book ticker stream reconnects"})
	DecisionLatency         = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "decision_latency_seconds", Help: "Tick to decision latency", Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12)})
)

// Init registers all collectors into a fresh registry.
func Init(logger *slog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		TicksTotal, UnknownSymbolTicksTotal, GateSkipsTotal,
		TrianglesCheckedTotal, OpportunitiesTotal, AttemptsTotal,
		OrdersSubmittedTotal, OrdersExpiredTotal, OrdersRejectedTotal,
		WSReconnectsTotal, DecisionLatency,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	logger.Info("Prometheus metrics initialized")
	return reg
}

// Handler serves the registry over HTTP.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
