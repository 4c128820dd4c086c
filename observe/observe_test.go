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

import "testing"

func TestNewDefaultsToNoOp(t *testing.T) {
	o := New()
	if _, ok := o.Logger.(NoOpLogger); !ok {
		t.Errorf("default Logger = %T, want NoOpLogger", o.Logger)
	}
	if _, ok := o.Tracer.(NoOpTracer); !ok {
		t.Errorf("default Tracer = %T, want NoOpTracer", o.Tracer)
	}
	if _, ok := o.Metrics.(NoOpMetrics); !ok {
		t.Errorf("default Metrics = %T, want NoOpMetrics", o.Metrics)
	}

	// No-op implementations must accept any call without effect.
	o.Logger.Info("ignored", map[string]interface{}{"k": 1})
	span := o.Tracer.StartSpan("ignored")
	span.SetAttribute("k", "v")
	span.RecordError(nil)
	span.End()
	o.Metrics.Inc("ignored")
	o.Metrics.Set("ignored", 1)
}

func TestOptionsInstallPorts(t *testing.T) {
	tracer := NewOtelTracer()
	metrics := NewOtelMetrics()
	o := New(WithTracer(tracer), WithMetrics(metrics))
	if o.Tracer != tracer {
		t.Error("WithTracer did not install the tracer")
	}
	if o.Metrics != metrics {
		t.Error("WithMetrics did not install the metrics collector")
	}
	if _, ok := o.Logger.(NoOpLogger); !ok {
		t.Error("Logger should default to NoOpLogger")
	}

	// The otel implementations run against the global (no-op) provider.
	span := o.Tracer.StartSpan("search")
	span.SetAttribute("nodes", 1)
	span.End()
	o.Metrics.Inc("nodes_expanded")
	o.Metrics.Set("frontier", 3)
}
