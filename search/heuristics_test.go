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

import "testing"

func testNode(t *testing.T, depth int, words int, incoming []IncomingEdge) *Node {
	t.Helper()
	store := NewStore()
	ws := make([]Word, words)
	for i := range ws {
		ws[i] = Word{{Symbol{Kind: SymbolPlant, Location: "l0", Clock: string(rune('a' + i)), Region: 0}}}
	}
	n, _ := store.Intern(ws, depth)
	for _, in := range incoming {
		n.addParent(n, in)
	}
	return n
}

func TestBFSHeuristicPrefersShallow(t *testing.T) {
	shallow := testNode(t, 1, 1, nil)
	deep := testNode(t, 5, 1, nil)
	if (BFSHeuristic{}).Rank(shallow) <= (BFSHeuristic{}).Rank(deep) {
		t.Error("BFS heuristic does not prefer shallow nodes")
	}
}

func TestFewerWordsHeuristic(t *testing.T) {
	simple := testNode(t, 0, 1, nil)
	complex := testNode(t, 0, 3, nil)
	if (FewerWordsHeuristic{}).Rank(simple) <= (FewerWordsHeuristic{}).Rank(complex) {
		t.Error("fewer-words heuristic does not prefer simpler nodes")
	}
}

func TestEnvironmentActionHeuristic(t *testing.T) {
	h := EnvironmentActionHeuristic{EnvironmentActions: map[string]bool{"bad": true}}
	env := testNode(t, 0, 1, []IncomingEdge{{Action: "bad", Increment: 0}})
	ctrl := testNode(t, 0, 1, []IncomingEdge{{Action: "ok", Increment: 0}})
	if h.Rank(env) <= h.Rank(ctrl) {
		t.Error("environment-action heuristic does not prefer environment nodes")
	}
}

func TestIncrementHeuristic(t *testing.T) {
	early := testNode(t, 0, 1, []IncomingEdge{{Action: "a", Increment: 1}})
	late := testNode(t, 0, 1, []IncomingEdge{{Action: "a", Increment: 4}})
	if (IncrementHeuristic{}).Rank(early) <= (IncrementHeuristic{}).Rank(late) {
		t.Error("increment heuristic does not prefer small increments")
	}
}

func TestCompositeHeuristicWeights(t *testing.T) {
	h := CompositeHeuristic{
		Heuristics: []Heuristic{BFSHeuristic{}, FewerWordsHeuristic{}},
		Weights:    []float64{2, 0},
	}
	n := testNode(t, 3, 5, nil)
	if got := h.Rank(n); got != -6 {
		t.Errorf("composite rank = %v, want -6 (2*-3 + 0*-5)", got)
	}
}
