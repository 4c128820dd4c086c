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

package observe

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/temposynth/engine"

// OtelTracer is a Tracer backed by OpenTelemetry.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer creates a tracer using the global OpenTelemetry provider.
func NewOtelTracer() *OtelTracer {
	return &OtelTracer{tracer: otel.Tracer(instrumentationName)}
}

// StartSpan starts a span on the background context.
func (t *OtelTracer) StartSpan(name string) Span {
	_, span := t.tracer.Start(context.Background(), name)
	return &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprint(v)))
	}
}

func (s *otelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

// OtelMetrics is a Metrics collector backed by OpenTelemetry. Instruments
// are created lazily and cached by name.
type OtelMetrics struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Float64Counter
	gauges   map[string]metric.Float64Gauge
}

// NewOtelMetrics creates a metrics collector using the global OpenTelemetry
// provider.
func NewOtelMetrics() *OtelMetrics {
	return &OtelMetrics{
		meter:    otel.Meter(instrumentationName),
		counters: map[string]metric.Float64Counter{},
		gauges:   map[string]metric.Float64Gauge{},
	}
}

// Inc increments a counter by 1.
func (m *OtelMetrics) Inc(name string) {
	m.Add(name, 1)
}

// Add adds a value to a counter.
func (m *OtelMetrics) Add(name string, value float64) {
	m.mu.Lock()
	counter, ok := m.counters[name]
	if !ok {
		var err error
		counter, err = m.meter.Float64Counter(name)
		if err != nil {
			m.mu.Unlock()
			return
		}
		m.counters[name] = counter
	}
	m.mu.Unlock()
	counter.Add(context.Background(), value)
}

// Set records a gauge value.
func (m *OtelMetrics) Set(name string, value float64) {
	m.mu.Lock()
	gauge, ok := m.gauges[name]
	if !ok {
		var err error
		gauge, err = m.meter.Float64Gauge(name)
		if err != nil {
			m.mu.Unlock()
			return
		}
		m.gauges[name] = gauge
	}
	m.mu.Unlock()
	gauge.Record(context.Background(), value)
}
