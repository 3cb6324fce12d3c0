// Package oteladapters implements the shell observability interfaces on OpenTelemetry.
//
//   - SlogBridgeLogger logs through log/slog, by default via the otelslog bridge
//   - OTelLogger emits records through the OpenTelemetry log API directly
//   - MetricsCollector maps durations to histograms, counters to counters and values to gauges
//   - TracingCollector starts and ends spans on a trace.Tracer
package oteladapters
