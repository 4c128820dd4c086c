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
	"errors"
	"testing"
)

func TestParseProgram(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "a"},
		{"a ; b", "(a;b)"},
		{"a | b", "(a|b)"},
		{"a*", "a*"},
		{"(a ; b)*", "(a;b)*"},
		{"pick ; (put | drop)", "(pick;(put|drop))"},
		{"nil", "nil"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, err := ParseProgram(tt.input)
			if err != nil {
				t.Fatalf("ParseProgram(%q): %v", tt.input, err)
			}
			if got := prog.String(); got != tt.want {
				t.Errorf("ParseProgram(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestProgramStepAndFinal(t *testing.T) {
	prog, err := ParseProgram("a ; (b | c)")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if prog.Final() {
		t.Error("a;(b|c) reported final before execution")
	}

	rests := prog.Step("a")
	if len(rests) != 1 || rests[0].String() != "(b|c)" {
		t.Fatalf("Step(a) = %v, want [(b|c)]", rests)
	}
	if rests[0].Final() {
		t.Error("(b|c) reported final")
	}
	done := rests[0].Step("b")
	if len(done) != 1 || !done[0].Final() {
		t.Errorf("Step(b) = %v, want one final program", done)
	}
	if got := rests[0].Step("a"); len(got) != 0 {
		t.Errorf("Step(a) on (b|c) = %v, want none", got)
	}
}

func TestProgramStarLoops(t *testing.T) {
	prog, err := ParseProgram("a*")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if !prog.Final() {
		t.Error("a* must be final (zero iterations)")
	}
	rests := prog.Step("a")
	if len(rests) != 1 || rests[0].String() != "a*" {
		t.Errorf("Step(a) on a* = %v, want [a*]", rests)
	}
}

func TestGologAdapter(t *testing.T) {
	prog, err := ParseProgram("load ; move ; unload")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	g, err := NewGolog(prog)
	if err != nil {
		t.Fatalf("NewGolog: %v", err)
	}
	defer g.Release()

	cfg := g.InitialConfiguration()
	if g.IsAccepting(cfg) {
		t.Error("unfinished program reported accepting")
	}
	if got := g.Alphabet(); len(got) != 3 {
		t.Errorf("Alphabet() = %v, want 3 actions", got)
	}

	succ, err := g.Successors(cfg, "load")
	if err != nil {
		t.Fatalf("Successors(load): %v", err)
	}
	if len(succ) != 1 {
		t.Fatalf("Successors(load) = %v, want one successor", succ)
	}
	if got := succ[0].Configuration.Clocks[GologClock]; got != 0 {
		t.Errorf("golog clock = %v after action, want 0 (reset)", got)
	}
	if symbols := g.SymbolsFor(succ[0].Configuration.Location); len(symbols) != 1 || symbols[0] != "load" {
		t.Errorf("SymbolsFor = %v, want [load]", symbols)
	}

	// Drive to completion; the remaining program decides acceptance.
	cfg = succ[0].Configuration
	for _, action := range []string{"move", "unload"} {
		succ, err = g.Successors(cfg, action)
		if err != nil || len(succ) != 1 {
			t.Fatalf("Successors(%s) = %v, %v", action, succ, err)
		}
		cfg = succ[0].Configuration
	}
	if !g.IsAccepting(cfg) {
		t.Error("completed program not accepting")
	}
}

func TestGologSingleInstance(t *testing.T) {
	prog, _ := ParseProgram("a")
	first, err := NewGolog(prog)
	if err != nil {
		t.Fatalf("NewGolog: %v", err)
	}
	if _, err := NewGolog(prog); !errors.Is(err, ErrAdapterBusy) {
		t.Errorf("second NewGolog error = %v, want ErrAdapterBusy", err)
	}
	first.Release()
	second, err := NewGolog(prog)
	if err != nil {
		t.Errorf("NewGolog after Release: %v", err)
	}
	if second != nil {
		second.Release()
	}
}
