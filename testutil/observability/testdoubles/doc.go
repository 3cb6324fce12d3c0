// Package testdoubles provides spies for the shell observability interfaces:
//   - MetricsCollectorSpy records durations, counters and values with their labels
//   - TracingCollectorSpy records started and finished spans
//   - ContextualLoggerSpy and LoggerSpy record log calls per level
package testdoubles
