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
	"github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/mtl"
	"github.com/temposynth/engine/plant"
)

func plantConfig(location string, clocks map[string]clock.Valuation) plant.Configuration {
	m := clock.Map{}
	for k, v := range clocks {
		m[k] = v
	}
	return plant.Configuration{Location: location, Clocks: m}
}

func TestNewWordPartitionsByFraction(t *testing.T) {
	q := mtl.AP("q")
	cfg := plantConfig("l0", map[string]clock.Valuation{"x": 0.5, "y": 1})
	ataCfg := ata.NewConfiguration(ata.State{Location: q, Clock: 0.3})

	w, err := NewWord(cfg, ataCfg, 2)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}
	// Fractions: y=0 (integer), q=0.3, x=0.5 → three partitions.
	if len(w) != 3 {
		t.Fatalf("word has %d partitions, want 3: %s", len(w), w)
	}
	if w[0][0].Clock != "y" || w[0][0].Region != 2 {
		t.Errorf("first partition = %s, want plant clock y at region 2", w[0])
	}
	if w[1][0].Kind != SymbolATA || w[1][0].Region != 1 {
		t.Errorf("second partition = %s, want automaton state at region 1", w[1])
	}
	if w[2][0].Clock != "x" || w[2][0].Region != 1 {
		t.Errorf("third partition = %s, want plant clock x at region 1", w[2])
	}
}

func TestNewWordRejectsClocklessPlant(t *testing.T) {
	if _, err := NewWord(plant.Configuration{Location: "l0", Clocks: clock.Map{}}, nil, 1); err == nil {
		t.Fatal("NewWord accepted a plant without clocks")
	}
}

func TestCanonicityIdempotent(t *testing.T) {
	q := mtl.AP("q")
	cfg := plantConfig("l0", map[string]clock.Valuation{"x": 1.25, "y": 0.75})
	ataCfg := ata.NewConfiguration(
		ata.State{Location: q, Clock: 0.75},
		ata.State{Location: mtl.AP("r"), Clock: 2},
	)
	w, err := NewWord(cfg, ataCfg, 2)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}
	if err := w.Validate(2); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Recomputing the word from its own candidate is the identity.
	plantCfg, candidateATA := w.Candidate(2)
	again, err := NewWord(plantCfg, candidateATA, 2)
	if err != nil {
		t.Fatalf("NewWord(candidate): %v", err)
	}
	if !w.Equal(again) {
		t.Errorf("canonical(candidate(w)) = %s, want %s", again, w)
	}
}

func TestValidateRejectsBrokenWords(t *testing.T) {
	mixed := Word{{
		Symbol{Kind: SymbolPlant, Location: "l0", Clock: "x", Region: 0},
		Symbol{Kind: SymbolPlant, Location: "l0", Clock: "y", Region: 1},
	}}
	if err := mixed.Validate(2); err == nil {
		t.Error("mixed even/odd partition not rejected")
	}

	lateInteger := Word{
		{Symbol{Kind: SymbolPlant, Location: "l0", Clock: "x", Region: 1}},
		{Symbol{Kind: SymbolPlant, Location: "l0", Clock: "y", Region: 2}},
	}
	if err := lateInteger.Validate(2); err == nil {
		t.Error("integer region outside first partition not rejected")
	}

	outOfBounds := Word{{Symbol{Kind: SymbolPlant, Location: "l0", Clock: "x", Region: 9}}}
	if err := outOfBounds.Validate(2); err == nil {
		t.Error("region above 2K+1 not rejected")
	}
}

func TestTimeSuccessorRotatesPartitions(t *testing.T) {
	q := mtl.AP("q")
	// [ {(l0,x,0)} ] with an automaton state in (0,1): x integer, q fractional.
	w, err := NewWord(
		plantConfig("l0", map[string]clock.Valuation{"x": 0}),
		ata.NewConfiguration(ata.State{Location: q, Clock: 0.5}),
		1,
	)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}

	// q crosses to the integer 1 and becomes the new first partition; x
	// moves into the open interval (0,1).
	succ := TimeSuccessor(w, 1)
	if err := succ.Validate(1); err != nil {
		t.Fatalf("successor invalid: %v", err)
	}
	if len(succ) != 2 {
		t.Fatalf("successor = %s, want two partitions", succ)
	}
	if succ[0][0].Kind != SymbolATA || succ[0][0].Region != 2 {
		t.Errorf("first partition = %s, want automaton state at region 2", succ[0])
	}
	if succ[1][0].Clock != "x" || succ[1][0].Region != 1 {
		t.Errorf("second partition = %s, want x at region 1", succ[1])
	}
}

func TestTimeSuccessorSaturates(t *testing.T) {
	maxed := Word{{
		Symbol{Kind: SymbolPlant, Location: "l0", Clock: "x", Region: 3},
		Symbol{Kind: SymbolATA, Formula: mtl.AP("q"), Region: 3},
	}}
	if succ := TimeSuccessor(maxed, 1); !succ.Equal(maxed) {
		t.Errorf("TimeSuccessor of saturated word = %s, want unchanged", succ)
	}
}

func TestTimeSuccessorsEnumeratesAll(t *testing.T) {
	w, err := NewWord(
		plantConfig("l0", map[string]clock.Valuation{"x": 0}),
		ata.NewConfiguration(ata.State{Location: mtl.AP("q"), Clock: 0}),
		1,
	)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}
	succs := TimeSuccessors(w, 1)
	// Regions 0 → 1 → 2 → 3 (absorbing): four distinct words.
	if len(succs) != 4 {
		t.Fatalf("TimeSuccessors yields %d words, want 4", len(succs))
	}
	for i, tw := range succs {
		if int(tw.Increment) != i {
			t.Errorf("increment %d at position %d", tw.Increment, i)
		}
		if err := tw.Word.Validate(1); err != nil {
			t.Errorf("successor %d invalid: %v", i, err)
		}
	}
	last := succs[len(succs)-1].Word
	if !TimeSuccessor(last, 1).Equal(last) {
		t.Error("final time successor is not a fixpoint")
	}
}

func TestMonotoneDomination(t *testing.T) {
	q := mtl.AP("q")
	base := plantConfig("l0", map[string]clock.Valuation{"x": 0})
	fewer, err := NewWord(base, ata.NewConfiguration(ata.State{Location: q, Clock: 0}), 1)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}
	more, err := NewWord(base, ata.NewConfiguration(
		ata.State{Location: q, Clock: 0},
		ata.State{Location: mtl.AP("r"), Clock: 0},
	), 1)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}

	if !fewer.MonotonicallyDominates(more) {
		t.Error("subset of obligations does not dominate superset")
	}
	if more.MonotonicallyDominates(fewer) {
		t.Error("superset of obligations dominates subset")
	}

	var set WordSet
	set.Insert(more)
	set.Insert(fewer)
	if set.Len() != 1 || !set.Words()[0].Equal(fewer) {
		t.Errorf("WordSet after pruning = %v, want only the dominating word", set.Words())
	}

	// Inserting a dominated word into a set holding the dominating one is
	// a no-op.
	set.Insert(more)
	if set.Len() != 1 {
		t.Errorf("dominated word was inserted: %v", set.Words())
	}
}

func TestRegAProjection(t *testing.T) {
	q := mtl.AP("q")
	w, err := NewWord(
		plantConfig("l0", map[string]clock.Valuation{"x": 0.5}),
		ata.NewConfiguration(ata.State{Location: q, Clock: 0.2}),
		1,
	)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}
	proj := w.RegA()
	if len(proj) != 1 || len(proj[0]) != 1 || proj[0][0].Kind != SymbolPlant {
		t.Errorf("RegA = %s, want only the plant symbol", proj)
	}
}
