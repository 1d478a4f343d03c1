// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

const (
	// DefaultEndpoint is the LangSmith API base URL.
	DefaultEndpoint = "https://api.smith.langchain.com"

	// TracesPath is appended to the endpoint to form the OTLP traces URL.
	TracesPath = "/otel/v1/traces"

	// ServiceName is reported as service.name on every span.
	ServiceName = "libris"
)

// Config selects where spans go.
type Config struct {
	Enabled  bool
	APIKey   string
	Project  string
	Endpoint string

	// Console receives pretty-printed spans when Enabled is set but APIKey
	// is empty. Nil disables the console fallback.
	Console io.Writer
}

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs a global tracer provider according to cfg and returns the
// function that flushes and stops it. When tracing is off the returned
// function does nothing.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	logger := slog.Default().With("component", "tracing")

	if !cfg.Enabled {
		logger.Debug("tracing disabled")
		return noopShutdown, nil
	}

	exporter, target, err := buildExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		logger.Warn("tracing enabled but no API key configured; spans are dropped")
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(ServiceName)),
	)
	if err != nil {
		logger.Warn("tracing resource init failed (continuing)", "error", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing initialized", "target", target, "project", cfg.Project)
	return tp.Shutdown, nil
}

func buildExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, string, error) {
	if cfg.APIKey == "" {
		if cfg.Console == nil {
			return nil, "", nil
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(cfg.Console), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, "", fmt.Errorf("creating console exporter: %w", err)
		}
		return exp, "console", nil
	}

	tracesURL, err := TracesURL(cfg.Endpoint)
	if err != nil {
		return nil, "", err
	}

	headers := map[string]string{"x-api-key": cfg.APIKey}
	if cfg.Project != "" {
		headers["Langsmith-Project"] = cfg.Project
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(tracesURL),
		otlptracehttp.WithHeaders(headers),
	)
	if err != nil {
		return nil, "", fmt.Errorf("creating OTLP exporter: %w", err)
	}
	return exp, tracesURL, nil
}

// TracesURL returns the OTLP traces URL for a LangSmith endpoint.
// An empty endpoint means DefaultEndpoint.
func TracesURL(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	return strings.TrimRight(endpoint, "/") + TracesPath, nil
}
