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

package plant

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/temposynth/engine/clock"
)

// Guard is an atomic clock constraint on a named clock.
type Guard struct {
	// Clock is the guarded clock's name.
	Clock string

	// Constraint is the comparison the clock must satisfy.
	Constraint clock.Constraint
}

// Satisfied reports whether the guard holds for the given valuations.
func (g Guard) Satisfied(clocks clock.Map) bool {
	return g.Constraint.Satisfied(clocks[g.Clock])
}

// String renders the guard, e.g. "x < 2".
func (g Guard) String() string {
	return g.Clock + " " + g.Constraint.String()
}

// Transition is a guarded, clock-resetting edge of a timed automaton.
type Transition struct {
	// Source and Target are the edge's locations.
	Source, Target string

	// Action is the symbol read by the edge.
	Action string

	// Guards are the clock constraints that must all hold.
	Guards []Guard

	// Resets are the clocks set to zero when the edge is taken.
	Resets []string
}

// Enabled reports whether the transition can fire for the given action and
// clock valuations.
func (t Transition) Enabled(action string, clocks clock.Map) bool {
	if action != t.Action {
		return false
	}
	for _, g := range t.Guards {
		if !g.Satisfied(clocks) {
			return false
		}
	}
	return true
}

// TimedAutomaton is a plant given as a timed automaton. The zero value is
// not usable; construct with NewTimedAutomaton and populate with AddClock
// and AddTransition. Once constructed it is read-only and safe for
// concurrent use.
type TimedAutomaton struct {
	mu          sync.RWMutex
	alphabet    map[string]bool
	locations   map[string]bool
	initial     string
	final       map[string]bool
	clocks      []string
	transitions map[string][]Transition // by source location
}

// NewTimedAutomaton creates a timed automaton with the given alphabet,
// initial location, and final locations. Every mentioned location is added.
func NewTimedAutomaton(alphabet []string, initial string, final []string) *TimedAutomaton {
	ta := &TimedAutomaton{
		alphabet:    map[string]bool{},
		locations:   map[string]bool{initial: true},
		initial:     initial,
		final:       map[string]bool{},
		transitions: map[string][]Transition{},
	}
	for _, a := range alphabet {
		ta.alphabet[a] = true
	}
	for _, l := range final {
		ta.locations[l] = true
		ta.final[l] = true
	}
	return ta
}

// AddLocation adds a location.
func (ta *TimedAutomaton) AddLocation(location string) {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	ta.locations[location] = true
}

// AddFinalLocation adds a location and marks it accepting.
func (ta *TimedAutomaton) AddFinalLocation(location string) {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	ta.locations[location] = true
	ta.final[location] = true
}

// AddAction adds an action to the alphabet.
func (ta *TimedAutomaton) AddAction(action string) {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	ta.alphabet[action] = true
}

// AddClock adds a clock.
func (ta *TimedAutomaton) AddClock(name string) {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	for _, c := range ta.clocks {
		if c == name {
			return
		}
	}
	ta.clocks = append(ta.clocks, name)
	sort.Strings(ta.clocks)
}

// AddTransition adds a transition. Every location, action, and clock the
// transition mentions must already be part of the automaton.
func (ta *TimedAutomaton) AddTransition(t Transition) error {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	if !ta.alphabet[t.Action] {
		return fmt.Errorf("%w: action %q not in alphabet", ErrAdapter, t.Action)
	}
	if !ta.locations[t.Source] {
		return fmt.Errorf("%w: unknown source location %q", ErrAdapter, t.Source)
	}
	if !ta.locations[t.Target] {
		return fmt.Errorf("%w: unknown target location %q", ErrAdapter, t.Target)
	}
	for _, g := range t.Guards {
		if !ta.hasClock(g.Clock) {
			return fmt.Errorf("%w: unknown clock %q in guard", ErrAdapter, g.Clock)
		}
	}
	for _, r := range t.Resets {
		if !ta.hasClock(r) {
			return fmt.Errorf("%w: unknown clock %q in reset", ErrAdapter, r)
		}
	}
	ta.transitions[t.Source] = append(ta.transitions[t.Source], t)
	return nil
}

func (ta *TimedAutomaton) hasClock(name string) bool {
	for _, c := range ta.clocks {
		if c == name {
			return true
		}
	}
	return false
}

// InitialConfiguration returns the initial location with all clocks at zero.
func (ta *TimedAutomaton) InitialConfiguration() Configuration {
	clocks := make(clock.Map, len(ta.clocks))
	for _, c := range ta.clocks {
		clocks[c] = 0
	}
	return Configuration{Location: ta.initial, Clocks: clocks}
}

// Clocks returns the clock names, sorted.
func (ta *TimedAutomaton) Clocks() []string {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	return append([]string(nil), ta.clocks...)
}

// Alphabet returns the actions, sorted.
func (ta *TimedAutomaton) Alphabet() []string {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	res := make([]string, 0, len(ta.alphabet))
	for a := range ta.alphabet {
		res = append(res, a)
	}
	sort.Strings(res)
	return res
}

// Successors returns every configuration reachable from cfg under action.
func (ta *TimedAutomaton) Successors(cfg Configuration, action string) ([]Successor, error) {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	if !ta.alphabet[action] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	var res []Successor
	for _, t := range ta.transitions[cfg.Location] {
		if !t.Enabled(action, cfg.Clocks) {
			continue
		}
		next := cfg.Clocks.Copy()
		for _, r := range t.Resets {
			next[r] = 0
		}
		res = append(res, Successor{
			Configuration: Configuration{Location: t.Target, Clocks: next},
			ResetClocks:   append([]string(nil), t.Resets...),
		})
	}
	return res, nil
}

// IsAccepting reports whether the configuration's location is final.
func (ta *TimedAutomaton) IsAccepting(cfg Configuration) bool {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	return ta.final[cfg.Location]
}

// SymbolsFor returns the location-constraint symbol of a location: the
// proposition "at_<location>". Specifications over locations use these as
// their alphabet.
func (ta *TimedAutomaton) SymbolsFor(location string) []string {
	return []string{"at_" + location}
}

// LargestConstant returns the largest constant any guard compares against.
func (ta *TimedAutomaton) LargestConstant() uint {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	var res uint
	for _, ts := range ta.transitions {
		for _, t := range ts {
			for _, g := range t.Guards {
				if g.Constraint.Comparand > res {
					res = g.Constraint.Comparand
				}
			}
		}
	}
	return res
}

// InitialLocation returns the initial location.
func (ta *TimedAutomaton) InitialLocation() string {
	return ta.initial
}

// Locations returns all locations, sorted.
func (ta *TimedAutomaton) Locations() []string {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	res := make([]string, 0, len(ta.locations))
	for l := range ta.locations {
		res = append(res, l)
	}
	sort.Strings(res)
	return res
}

// Transitions returns all transitions, grouped by source location.
func (ta *TimedAutomaton) Transitions() []Transition {
	ta.mu.RLock()
	defer ta.mu.RUnlock()
	var res []Transition
	for _, ts := range ta.transitions {
		res = append(res, ts...)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Source != res[j].Source {
			return res[i].Source < res[j].Source
		}
		if res[i].Action != res[j].Action {
			return res[i].Action < res[j].Action
		}
		return res[i].Target < res[j].Target
	})
	return res
}

// Product combines finitely many timed automata into one plant that runs
// them side by side. A product location is the tuple of component locations,
// rendered as "(l1,l2,...)". Every component must use disjoint clock names.
// Actions shared between components are not supported and are rejected.
func Product(components ...*TimedAutomaton) (*TimedAutomaton, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: empty product", ErrAdapter)
	}
	actionOwner := map[string]int{}
	var alphabet []string
	for i, c := range components {
		for _, a := range c.Alphabet() {
			if owner, seen := actionOwner[a]; seen && owner != i {
				return nil, fmt.Errorf("%w: synchronized action %q shared by multiple components", ErrAdapter, a)
			}
			actionOwner[a] = i
			alphabet = append(alphabet, a)
		}
	}

	initial := make([]string, len(components))
	for i, c := range components {
		initial[i] = c.initial
	}
	res := NewTimedAutomaton(alphabet, productLocation(initial), nil)
	for _, c := range components {
		for _, name := range c.Clocks() {
			if res.hasClock(name) {
				return nil, fmt.Errorf("%w: clock %q used by multiple components", ErrAdapter, name)
			}
			res.AddClock(name)
		}
	}

	// Enumerate the location tuples and interleave the component edges.
	tuples := [][]string{{}}
	for _, c := range components {
		var expanded [][]string
		for _, t := range tuples {
			for _, l := range c.Locations() {
				next := append(append([]string(nil), t...), l)
				expanded = append(expanded, next)
			}
		}
		tuples = expanded
	}
	for _, tuple := range tuples {
		loc := productLocation(tuple)
		res.AddLocation(loc)
		allFinal := true
		for i, c := range components {
			if !c.final[tuple[i]] {
				allFinal = false
				break
			}
		}
		if allFinal {
			res.AddFinalLocation(loc)
		}
	}
	for i, c := range components {
		for _, t := range c.Transitions() {
			for _, tuple := range tuples {
				if tuple[i] != t.Source {
					continue
				}
				target := append([]string(nil), tuple...)
				target[i] = t.Target
				if err := res.AddTransition(Transition{
					Source: productLocation(tuple),
					Target: productLocation(target),
					Action: t.Action,
					Guards: t.Guards,
					Resets: t.Resets,
				}); err != nil {
					return nil, err
				}
			}
		}
	}
	return res, nil
}

func productLocation(components []string) string {
	return "(" + strings.Join(components, ",") + ")"
}
