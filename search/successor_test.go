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
	"testing"

	"github.com/temposynth/engine/ata"
	"github.com/temposynth/engine/mtl"
	"github.com/temposynth/engine/plant"
)

func TestNextWordsCombinesPlantAndAutomaton(t *testing.T) {
	ta := plant.NewTimedAutomaton([]string{"a"}, "s0", []string{"s1"})
	ta.AddClock("x")
	if err := ta.AddTransition(plant.Transition{
		Source: "s0", Target: "s1", Action: "a", Resets: []string{"x"},
	}); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	q0, q1 := mtl.AP("q0"), mtl.AP("q1")
	arena := &ata.Arena{}
	fork := arena.And(arena.Location(q0), arena.Reset(arena.Location(q1)))
	automaton := ata.NewAutomaton(arena, []string{"a"}, q0, nil,
		[]ata.Transition{{Source: q0, Symbol: "a", Formula: fork}})

	start, err := NewWord(ta.InitialConfiguration().Advance(0.5), automaton.InitialConfiguration().Advance(0.5), 1)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}

	words, resets, err := NextWords(start, ta, automaton, "a", 1, Config{})
	if err != nil {
		t.Fatalf("NextWords: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("NextWords = %v, want one word", words)
	}
	if len(resets) != 1 || resets[0] != "x" {
		t.Errorf("resets = %v, want [x]", resets)
	}

	w := words[0]
	if err := w.Validate(1); err != nil {
		t.Fatalf("successor word invalid: %v", err)
	}
	// The plant clock and the fresh automaton state are reset (integer
	// partition); the forked q0 state keeps its fractional clock.
	if len(w) != 2 {
		t.Fatalf("successor word = %s, want two partitions", w)
	}
	first := w[0]
	if len(first) != 2 {
		t.Errorf("integer partition = %s, want plant clock and reset state", first)
	}
	for _, s := range first {
		if s.Region != 0 {
			t.Errorf("reset symbol %s has region %d, want 0", s, s.Region)
		}
	}
	if w[1][0].Kind != SymbolATA || w[1][0].Region != 1 {
		t.Errorf("aged partition = %s, want q0 at region 1", w[1])
	}
}

func TestCollapseToSet(t *testing.T) {
	q := mtl.AP("q")
	w := Word{
		{Symbol{Kind: SymbolPlant, Location: "l0", Clock: "x", Region: 1},
			Symbol{Kind: SymbolATA, Formula: q, Region: 1}},
		{Symbol{Kind: SymbolATA, Formula: q, Region: 1}},
	}
	collapsed := collapseToSet(w)
	if len(collapsed) != 1 {
		t.Fatalf("collapsed word = %s, want one partition", collapsed)
	}
	if len(collapsed[0]) != 2 {
		t.Errorf("collapsed partition = %s, want plant clock and one automaton state", collapsed[0])
	}
}
