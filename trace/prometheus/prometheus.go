// Package prometheus records request, validation and field metrics with Prometheus
// collectors. It implements the tracer interfaces so it plugs in wherever a tracer does.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

type Tracer struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	fields           *prometheus.CounterVec
	fieldDuration    *prometheus.HistogramVec
	validationErrors prometheus.Counter
	gatherer         prometheus.Gatherer
}

// NewTracer registers the collectors with reg. A nil reg uses a fresh registry.
func NewTracer(reg *prometheus.Registry) *Tracer {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Tracer{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graphql_requests_total",
			Help: "Total number of executed GraphQL operations",
		}, []string{"operation", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphql_request_duration_seconds",
			Help:    "Duration of GraphQL operation execution",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		fields: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graphql_field_resolutions_total",
			Help: "Total number of resolved fields",
		}, []string{"type", "field", "status"}),
		fieldDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphql_field_duration_seconds",
			Help:    "Duration of field resolution, including pending work",
			Buckets: prometheus.DefBuckets,
		}, []string{"type", "field"}),
		validationErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "graphql_validation_errors_total",
			Help: "Total number of validation errors reported",
		}),
		gatherer: reg,
	}
}

func status(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}

func (t *Tracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, tracer.QueryFinishFunc) {
	start := time.Now()
	if operationName == "" {
		operationName = "anonymous"
	}
	return ctx, func(errs []*errors.QueryError) {
		t.requests.WithLabelValues(operationName, status(len(errs) > 0)).Inc()
		t.requestDuration.WithLabelValues(operationName).Observe(time.Since(start).Seconds())
	}
}

func (t *Tracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if trivial {
		return ctx, func(*errors.QueryError) {}
	}
	start := time.Now()
	return ctx, func(err *errors.QueryError) {
		t.fields.WithLabelValues(typeName, fieldName, status(err != nil)).Inc()
		t.fieldDuration.WithLabelValues(typeName, fieldName).Observe(time.Since(start).Seconds())
	}
}

func (t *Tracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	return func(errs []*errors.QueryError) {
		t.validationErrors.Add(float64(len(errs)))
	}
}

// Handler serves the collected metrics for scraping.
func (t *Tracer) Handler() http.Handler {
	return promhttp.HandlerFor(t.gatherer, promhttp.HandlerOpts{})
}
