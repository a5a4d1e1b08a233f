package repository

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"contentapi/internal/model"
)

const tracerName = "contentapi/repository"

// Instrumented wraps a ContentStore with a duration histogram and a span per
// operation. Ping is forwarded when the wrapped store supports it.
type Instrumented struct {
	next     ContentStore
	backend  string
	duration *prometheus.HistogramVec
	tracer   trace.Tracer
}

var _ ContentStore = (*Instrumented)(nil)

// NewInstrumented registers the store metrics on reg and returns the wrapper.
func NewInstrumented(next ContentStore, backend string, reg prometheus.Registerer) (*Instrumented, error) {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_store_operation_duration_seconds",
			Help:    "Duration of content store operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation", "result"},
	)
	if err := reg.Register(duration); err != nil {
		return nil, err
	}
	return &Instrumented{
		next:     next,
		backend:  backend,
		duration: duration,
		tracer:   otel.Tracer(tracerName),
	}, nil
}

func (s *Instrumented) Load(ctx context.Context) ([]model.ContentItem, error) {
	ctx, span := s.start(ctx, "load")
	defer span.End()

	start := time.Now()
	items, err := s.next.Load(ctx)
	s.observe("load", start, span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("content.items", len(items)))
	}
	return items, err
}

func (s *Instrumented) Save(ctx context.Context, items []model.ContentItem) error {
	ctx, span := s.start(ctx, "save")
	defer span.End()
	span.SetAttributes(attribute.Int("content.items", len(items)))

	start := time.Now()
	err := s.next.Save(ctx, items)
	s.observe("save", start, span, err)
	return err
}

// Ping reports the wrapped store's health, or nil if it cannot tell.
func (s *Instrumented) Ping(ctx context.Context) error {
	if p, ok := s.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Instrumented) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "content_store."+op,
		trace.WithAttributes(attribute.String("content.store.backend", s.backend)),
	)
}

func (s *Instrumented) observe(op string, start time.Time, span trace.Span, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.duration.WithLabelValues(s.backend, op, result).Observe(time.Since(start).Seconds())
}
