package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/scheduler"
)

var _ scheduler.Observer = (*Observer)(nil)

// Observer implements scheduler.Observer. A queue flushes on one
// goroutine, so the open span needs no locking.
type Observer struct {
	metrics *Metrics
	tracer  trace.Tracer

	ctx  context.Context
	span trace.Span
}

// New creates an Observer and registers its collectors.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	o := &Observer{metrics: NewMetrics(config), ctx: context.Background()}
	if config.TracerName != "" {
		o.tracer = otel.Tracer(config.TracerName)
	}
	return o
}

// WithTracer returns o using tracer for flush spans.
func (o *Observer) WithTracer(tracer trace.Tracer) *Observer {
	o.tracer = tracer
	return o
}

// Fork returns an Observer that shares o's collectors and tracer but
// keeps its own flush span. Use one per queue.
func (o *Observer) Fork() *Observer {
	return &Observer{metrics: o.metrics, tracer: o.tracer, ctx: o.ctx}
}

// Metrics returns the collectors, for CountingHost.
func (o *Observer) Metrics() *Metrics {
	return o.metrics
}

// FlushStarted implements scheduler.Observer.
func (o *Observer) FlushStarted(pending int) {
	o.metrics.pendingJobs.Set(float64(pending))
	if o.tracer == nil {
		return
	}
	_, o.span = o.tracer.Start(o.ctx, "reactor.flush",
		trace.WithAttributes(attribute.Int("reactor.pending", pending)),
	)
}

// JobFinished implements scheduler.Observer.
func (o *Observer) JobFinished(name string, d time.Duration, err error) {
	o.metrics.jobsTotal.WithLabelValues(name, status(err)).Inc()
	o.metrics.jobDuration.WithLabelValues(name).Observe(d.Seconds())
	if o.span == nil {
		return
	}
	o.span.AddEvent("job", trace.WithAttributes(
		attribute.String("reactor.job", name),
		attribute.Int64("reactor.duration_us", d.Microseconds()),
	))
	if err != nil {
		o.span.RecordError(err)
	}
}

// FlushFinished implements scheduler.Observer.
func (o *Observer) FlushFinished(jobs, passes int, d time.Duration, err error) {
	o.metrics.flushesTotal.WithLabelValues(status(err)).Inc()
	o.metrics.flushDuration.Observe(d.Seconds())
	o.metrics.flushPasses.Observe(float64(passes))
	o.metrics.pendingJobs.Set(0)
	if o.span == nil {
		return
	}
	o.span.SetAttributes(
		attribute.Int("reactor.jobs", jobs),
		attribute.Int("reactor.passes", passes),
	)
	if err != nil {
		o.span.SetStatus(codes.Error, err.Error())
	} else {
		o.span.SetStatus(codes.Ok, "")
	}
	o.span.End()
	o.span = nil
}
