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

// Package clock provides the two notions of time used by the synthesis engine.
//
// The first notion is *model time*: dense-valued clock valuations of the plant
// and of the specification automaton. Valuations are plain non-negative reals;
// the helpers in valuation.go split them into integer and fractional parts with
// an epsilon tolerance, which is the basis of the region abstraction in the
// region package.
//
// The second notion is *wall time*: how long a synthesis run is allowed to
// take. The Clock interface abstracts wall time so that deadline handling can
// be driven manually in tests (Virtual) while delegating to the time package
// in production (RealTime).
//
// Example usage in tests:
//
//	clk := clock.NewVirtual(start)
//	timer := clk.After(5 * time.Second)
//	clk.AdvanceBy(10 * time.Second) // fires the timer instantly
//	<-timer
package clock

import "time"

// Clock abstracts wall-time operations for deadline handling.
// Implementations must be safe for concurrent use by multiple goroutines.
type Clock interface {
	// Now returns the current time according to this clock.
	Now() time.Time

	// After returns a channel that receives the current time after duration d.
	// The channel receives exactly once.
	After(d time.Duration) <-chan time.Time

	// Sleep pauses the current goroutine for at least duration d.
	Sleep(d time.Duration)
}
