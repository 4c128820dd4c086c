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

package visualization

import (
	"context"
	"strings"
	"testing"

	"github.com/temposynth/engine/mtl"
	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/search"
	"github.com/temposynth/engine/translation"
)

func TestAutomatonToDOT(t *testing.T) {
	ta := plant.NewTimedAutomaton([]string{"a"}, "s0", []string{"s1"})
	ta.AddClock("x")
	if err := ta.AddTransition(plant.Transition{
		Source: "s0", Target: "s1", Action: "a", Resets: []string{"x"},
	}); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	dot := AutomatonToDOT("demo", ta)
	for _, want := range []string{"digraph \"demo\"", "doublecircle", "x := 0", "->"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestSearchToDOT(t *testing.T) {
	ta := plant.NewTimedAutomaton([]string{"bad"}, "s0", []string{"s0", "s1"})
	ta.AddClock("x")
	if err := ta.AddTransition(plant.Transition{Source: "s0", Target: "s1", Action: "bad"}); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}
	spec, err := mtl.Parse("G !at_s1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var alphabet []string
	for _, l := range ta.Locations() {
		alphabet = append(alphabet, ta.SymbolsFor(l)...)
	}
	automaton, err := translation.Translate(spec, alphabet)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	ts, err := search.NewTreeSearch(ta, automaton, search.Options{
		EnvironmentActions: []string{"bad"},
		K:                  search.Bound(ta, spec),
		Config:             search.Config{UseLocationConstraints: true},
	})
	if err != nil {
		t.Fatalf("NewTreeSearch: %v", err)
	}
	if _, err := ts.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	dot := SearchToDOT(ts.Root())
	if !strings.Contains(dot, "digraph search") {
		t.Errorf("DOT output missing header:\n%s", dot)
	}
	if !strings.Contains(dot, "color=red") {
		t.Errorf("losing search graph has no red node:\n%s", dot)
	}
}
