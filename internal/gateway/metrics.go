package gateway

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gateway request collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend calls by table, operation and result.",
		}, []string{"table", "op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Latency of backend calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Instrument wraps next so every call is counted and timed.
func Instrument(next Gateway, m *Metrics) Gateway {
	return &instrumented{next: next, m: m}
}

type instrumented struct {
	next Gateway
	m    *Metrics
}

func (g *instrumented) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	start := time.Now()
	rows, err := g.next.Select(ctx, table, q)
	g.observe(table, "select", start, err)
	return rows, err
}

func (g *instrumented) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	start := time.Now()
	out, err := g.next.Insert(ctx, table, rows)
	g.observe(table, "insert", start, err)
	return out, err
}

func (g *instrumented) Update(ctx context.Context, table string, patch Row, filters []Filter) ([]Row, error) {
	start := time.Now()
	out, err := g.next.Update(ctx, table, patch, filters)
	g.observe(table, "update", start, err)
	return out, err
}

func (g *instrumented) Delete(ctx context.Context, table string, filters []Filter) ([]Row, error) {
	start := time.Now()
	out, err := g.next.Delete(ctx, table, filters)
	g.observe(table, "delete", start, err)
	return out, err
}

func (g *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := g.next.Ping(ctx)
	g.observe("", "ping", start, err)
	return err
}

func (g *instrumented) observe(table, op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	g.m.requests.WithLabelValues(table, op, result).Inc()
	g.m.duration.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
}
