// Package telemetry exports scheduler and host activity to Prometheus and
// OpenTelemetry.
//
// An Observer plugs into scheduler.WithObserver and records job counts,
// durations and flush passes. When a tracer is configured every flush
// becomes a span with one event per job. CountingHost wraps a
// renderer.Host and counts the mutations a render performs.
//
//	reg := prometheus.NewRegistry()
//	obs := telemetry.New(telemetry.WithRegistry(reg), telemetry.WithTracing("reactor"))
//	q := scheduler.NewQueue(scheduler.WithObserver(obs))
//	r := renderer.New(telemetry.NewCountingHost(doc, obs.Metrics()))
package telemetry
