// Package tracing installs the OpenTelemetry tracer provider used by the
// chat, embedding and pipeline spans.
//
// Spans are exported over OTLP/HTTP to a LangSmith-compatible endpoint when
// tracing is enabled and an API key is configured. With tracing enabled but
// no key, spans are pretty-printed to a console writer instead. Otherwise the
// global no-op provider stays in place.
package tracing
