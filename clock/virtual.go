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

package clock

import (
	"sync"
	"time"
)

// Virtual is a Clock whose time only moves when AdvanceTo or AdvanceBy is
// called. It makes deadline behavior of the search driver deterministic in
// tests: a cancellation timeout can be triggered at an exact instant without
// real waiting.
type Virtual struct {
	mu      sync.Mutex
	current time.Time
	timers  []*virtualTimer
}

type virtualTimer struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtual creates a virtual clock starting at the given time.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{current: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// After returns a channel that fires once the virtual time has been advanced
// past the deadline. If the deadline is not in the future, the channel fires
// immediately.
func (v *Virtual) After(d time.Duration) <-chan time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan time.Time, 1)
	deadline := v.current.Add(d)
	if !deadline.After(v.current) {
		ch <- v.current
		return ch
	}
	v.timers = append(v.timers, &virtualTimer{deadline: deadline, ch: ch})
	return ch
}

// Sleep blocks until the virtual time has been advanced past the deadline.
func (v *Virtual) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-v.After(d)
}

// AdvanceTo moves the virtual clock forward to target and fires every pending
// timer whose deadline has been reached. The clock never moves backward; a
// target in the past is a no-op.
func (v *Virtual) AdvanceTo(target time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !target.After(v.current) {
		return
	}
	v.current = target
	remaining := v.timers[:0]
	for _, t := range v.timers {
		if t.deadline.After(v.current) {
			remaining = append(remaining, t)
			continue
		}
		t.ch <- v.current
	}
	v.timers = remaining
}

// AdvanceBy moves the virtual clock forward by d.
func (v *Virtual) AdvanceBy(d time.Duration) {
	if d <= 0 {
		return
	}
	v.AdvanceTo(v.Now().Add(d))
}
