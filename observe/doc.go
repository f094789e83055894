// Package observe provides telemetry primitives for the response cache:
// structured JSON logging, OpenTelemetry metrics for cache accesses and
// evictions, and tracing for the miss-path fetch.
package observe
