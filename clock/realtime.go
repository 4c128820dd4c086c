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

import "time"

// RealTime is a Clock backed by the system clock. It is the production
// implementation; all methods delegate to the time package.
type RealTime struct{}

// NewRealTime creates a Clock that uses actual system time.
func NewRealTime() *RealTime {
	return &RealTime{}
}

// Now returns the current system time.
func (r *RealTime) Now() time.Time {
	return time.Now()
}

// After delegates to time.After.
func (r *RealTime) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Sleep delegates to time.Sleep.
func (r *RealTime) Sleep(d time.Duration) {
	time.Sleep(d)
}
