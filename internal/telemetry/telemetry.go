// SPDX-License-Identifier: MIT

// Package telemetry installs the OpenTelemetry tracer provider used by the
// CLI. Spans are exported as JSON to a writer (normally stderr or a file).
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName identifies this program in exported spans.
const ServiceName = "pathbnb"

// ErrNilWriter is returned by Init when no destination is given.
var ErrNilWriter = errors.New("telemetry: nil writer")

// Init registers a global tracer provider exporting to w and returns its
// shutdown function, which flushes pending spans.
//
//	shutdown, err := telemetry.Init(os.Stderr, version)
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
func Init(w io.Writer, version string) (shutdown func(context.Context) error, err error) {
	tp, err := NewProvider(w, version)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// NewProvider builds a tracer provider exporting to w without registering it.
func NewProvider(w io.Writer, version string) (*sdktrace.TracerProvider, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
