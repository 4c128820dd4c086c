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

package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/plant"
)

// fischerPlant builds the two-process Fischer mutual-exclusion protocol as
// a single timed automaton. The shared lock variable is folded into the
// location. Process i assigns the lock within delayAssign time units of
// requesting and may only enter the critical section after waiting more
// than delayEnter; mutual exclusion holds whenever delayEnter > delayAssign.
func fischerPlant(t *testing.T, delayAssign, delayEnter uint) *plant.TimedAutomaton {
	t.Helper()
	phases := []string{"idle", "req", "wait", "crit"}
	loc := func(p1, p2 string, v int) string {
		return fmt.Sprintf("%s_%s_%d", p1, p2, v)
	}

	var locations []string
	for _, p1 := range phases {
		for _, p2 := range phases {
			for v := 0; v <= 2; v++ {
				locations = append(locations, loc(p1, p2, v))
			}
		}
	}
	actions := []string{"try_1", "set_1", "enter_1", "retry_1", "exit_1",
		"try_2", "set_2", "enter_2", "retry_2", "exit_2"}

	ta := plant.NewTimedAutomaton(actions, loc("idle", "idle", 0), locations)
	ta.AddClock("x1")
	ta.AddClock("x2")

	add := func(tr plant.Transition) {
		if err := ta.AddTransition(tr); err != nil {
			t.Fatalf("AddTransition: %v", err)
		}
	}
	guard := func(c string, op clock.Op, value uint) plant.Guard {
		return plant.Guard{Clock: c, Constraint: clock.Constraint{Op: op, Comparand: value}}
	}

	for pid := 1; pid <= 2; pid++ {
		x := fmt.Sprintf("x%d", pid)
		suffix := fmt.Sprintf("_%d", pid)
		// other iterates over the second process's phases while this
		// process moves.
		for _, other := range phases {
			place := func(own string, v int) string {
				if pid == 1 {
					return loc(own, other, v)
				}
				return loc(other, own, v)
			}
			// try: request the lock while it is free.
			add(plant.Transition{
				Source: place("idle", 0), Target: place("req", 0),
				Action: "try" + suffix, Resets: []string{x},
			})
			// set: claim the lock within the assignment delay.
			add(plant.Transition{
				Source: place("req", 0), Target: place("wait", pid),
				Action: "set" + suffix,
				Guards: []plant.Guard{guard(x, clock.LessEqual, delayAssign)},
				Resets: []string{x},
			})
			for v := 0; v <= 2; v++ {
				if v != 0 {
					// set is also possible when the lock was reclaimed.
					add(plant.Transition{
						Source: place("req", v), Target: place("wait", pid),
						Action: "set" + suffix,
						Guards: []plant.Guard{guard(x, clock.LessEqual, delayAssign)},
						Resets: []string{x},
					})
				}
				if v == pid {
					// enter: the lock still holds our id after the wait.
					add(plant.Transition{
						Source: place("wait", v), Target: place("crit", v),
						Action: "enter" + suffix,
						Guards: []plant.Guard{guard(x, clock.Greater, delayEnter)},
					})
				} else {
					// retry: someone else claimed the lock.
					add(plant.Transition{
						Source: place("wait", v), Target: place("idle", v),
						Action: "retry" + suffix,
						Guards: []plant.Guard{guard(x, clock.Greater, delayEnter)},
					})
				}
				// exit: leave the critical section and release the lock.
				add(plant.Transition{
					Source: place("crit", v), Target: place("idle", 0),
					Action: "exit" + suffix, Resets: []string{x},
				})
			}
		}
	}
	return ta
}

// Scenario: Fischer mutual exclusion with delay_self_assign=1 and
// delay_enter_critical=2. The protocol keeps both processes out of the
// critical section simultaneously, so the safety specification holds no
// matter how the environment schedules the second process.
func TestFischerMutualExclusion(t *testing.T) {
	if testing.Short() {
		t.Skip("state space too large for -short")
	}
	ta := fischerPlant(t, 1, 2)

	spec := mustParse(t, "G (!at_crit_crit_0 && !at_crit_crit_1 && !at_crit_crit_2)")
	automaton := mustTranslate(t, spec, locationAlphabet(ta))

	ts, err := NewTreeSearch(ta, automaton, Options{
		ControllerActions: []string{"try_1", "set_1", "enter_1", "retry_1", "exit_1"},
		K:                 Bound(ta, spec),
		Config:            Config{UseLocationConstraints: true},
		Workers:           4,
	})
	if err != nil {
		t.Fatalf("NewTreeSearch: %v", err)
	}
	result, err := ts.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != ResultRealizable {
		t.Errorf("result = %s, want REALIZABLE", result)
	}
}
