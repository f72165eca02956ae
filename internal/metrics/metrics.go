// Package metrics exposes Prometheus metrics for the campaign service on a
// scoped registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blazestudiox/coldforge/api/internal/llm"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	CampaignsGeneratedTotal *prometheus.CounterVec
	LLMCallsTotal           *prometheus.CounterVec
	StageDurationSeconds    *prometheus.HistogramVec
	DemoRequestsTotal       prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics instance with all metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		CampaignsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldforge_campaigns_generated_total",
				Help: "Total number of campaigns generated",
			},
			[]string{"provider", "mode"},
		),
		LLMCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldforge_llm_calls_total",
				Help: "Total number of model provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		StageDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coldforge_stage_duration_seconds",
				Help:    "Wall-clock duration of each pipeline stage",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120},
			},
			[]string{"stage"},
		),
		DemoRequestsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "coldforge_demo_requests_total",
				Help: "Total number of demo generations served",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.CampaignsGeneratedTotal,
		m.LLMCallsTotal,
		m.StageDurationSeconds,
		m.DemoRequestsTotal,
	)

	return m
}

// Handler returns the scrape endpoint handler for the scoped registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStage records one pipeline stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// WrapClient decorates a model client so every call is counted by outcome.
func (m *Metrics) WrapClient(provider string, client llm.Client) llm.Client {
	return &countedClient{provider: provider, inner: client, metrics: m}
}

type countedClient struct {
	provider string
	inner    llm.Client
	metrics  *Metrics
}

func (c *countedClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	text, err := c.inner.Generate(ctx, req)
	c.metrics.LLMCallsTotal.WithLabelValues(c.provider, outcomeOf(err)).Inc()
	return text, err
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var (
		timeoutErr   *llm.TimeoutError
		providerErr  *llm.ProviderError
		protocolErr  *llm.ProtocolError
		transportErr *llm.TransportError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &providerErr):
		return "provider_error"
	case errors.As(err, &protocolErr):
		return "protocol_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	default:
		return "error"
	}
}
