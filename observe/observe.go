// Copyright 2026 The TempoSynth Authors
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

// Package observe defines the observability ports of the synthesis engine:
// structured logging, tracing, and metrics. The engine only depends on the
// interfaces; production wiring uses the bolt logger and OpenTelemetry
// implementations in this package, while the no-op implementations keep
// disabled observability at zero overhead.
package observe

// Logger handles structured logging with contextual fields.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs detailed troubleshooting information.
	Debug(msg string, fields map[string]interface{})

	// Info logs general progress information.
	Info(msg string, fields map[string]interface{})

	// Warn logs recoverable anomalies.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures.
	Error(msg string, fields map[string]interface{})
}

// Tracer creates trace spans for units of work.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// StartSpan creates a span; end it with Span.End when the work
	// completes.
	StartSpan(name string) Span
}

// Span is a single trace span.
type Span interface {
	// End marks the span complete.
	End()

	// SetAttribute attaches a key-value attribute.
	SetAttribute(key string, value interface{})

	// RecordError records an error against the span.
	RecordError(err error)
}

// Metrics collects counters and gauges.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// Inc increments a counter by 1.
	Inc(name string)

	// Add adds a value to a counter.
	Add(name string, value float64)

	// Set sets a gauge.
	Set(name string, value float64)
}

// Observability bundles the three ports. The zero value is not usable;
// construct with New, which fills every absent port with a no-op.
type Observability struct {
	Logger  Logger
	Tracer  Tracer
	Metrics Metrics
}

// Option configures an Observability bundle.
type Option func(*Observability)

// WithLogger installs a logger.
func WithLogger(l Logger) Option {
	return func(o *Observability) { o.Logger = l }
}

// WithTracer installs a tracer.
func WithTracer(t Tracer) Option {
	return func(o *Observability) { o.Tracer = t }
}

// WithMetrics installs a metrics collector.
func WithMetrics(m Metrics) Option {
	return func(o *Observability) { o.Metrics = m }
}

// New builds an Observability bundle, defaulting every port to no-op.
func New(opts ...Option) Observability {
	o := Observability{
		Logger:  NoOpLogger{},
		Tracer:  NoOpTracer{},
		Metrics: NoOpMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NoOpLogger discards every log call.
type NoOpLogger struct{}

// Debug does nothing.
func (NoOpLogger) Debug(string, map[string]interface{}) {}

// Info does nothing.
func (NoOpLogger) Info(string, map[string]interface{}) {}

// Warn does nothing.
func (NoOpLogger) Warn(string, map[string]interface{}) {}

// Error does nothing.
func (NoOpLogger) Error(string, map[string]interface{}) {}

// NoOpTracer produces spans that do nothing.
type NoOpTracer struct{}

// StartSpan returns a no-op span.
func (NoOpTracer) StartSpan(string) Span { return NoOpSpan{} }

// NoOpSpan is a span that does nothing.
type NoOpSpan struct{}

// End does nothing.
func (NoOpSpan) End() {}

// SetAttribute does nothing.
func (NoOpSpan) SetAttribute(string, interface{}) {}

// RecordError does nothing.
func (NoOpSpan) RecordError(error) {}

// NoOpMetrics discards every metric.
type NoOpMetrics struct{}

// Inc does nothing.
func (NoOpMetrics) Inc(string) {}

// Add does nothing.
func (NoOpMetrics) Add(string, float64) {}

// Set does nothing.
func (NoOpMetrics) Set(string, float64) {}
