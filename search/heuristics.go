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

// Heuristic ranks frontier nodes; higher ranks are expanded first.
type Heuristic interface {
	Rank(n *Node) float64
}

// BFSHeuristic expands shallower nodes first, yielding breadth-first
// search.
type BFSHeuristic struct{}

// Rank returns the negated node depth.
func (BFSHeuristic) Rank(n *Node) float64 {
	return -float64(n.Depth())
}

// FewerWordsHeuristic prefers nodes with fewer canonical words: simpler
// symbolic states tend to be decided faster.
type FewerWordsHeuristic struct{}

// Rank returns the negated word count.
func (FewerWordsHeuristic) Rank(n *Node) float64 {
	return -float64(len(n.Words()))
}

// EnvironmentActionHeuristic prefers nodes reached by an environment
// action: adversarial witnesses are usually shorter.
type EnvironmentActionHeuristic struct {
	// EnvironmentActions is the environment's action set.
	EnvironmentActions map[string]bool
}

// Rank returns 1 for nodes with an incoming environment action.
func (h EnvironmentActionHeuristic) Rank(n *Node) float64 {
	for _, in := range n.Incoming() {
		if h.EnvironmentActions[in.Action] {
			return 1
		}
	}
	return 0
}

// IncrementHeuristic prefers nodes reached by small region increments:
// early actions decide games faster than long waits.
type IncrementHeuristic struct{}

// Rank returns the negated smallest incoming region increment.
func (IncrementHeuristic) Rank(n *Node) float64 {
	incoming := n.Incoming()
	if len(incoming) == 0 {
		return 0
	}
	best := incoming[0].Increment
	for _, in := range incoming[1:] {
		if in.Increment < best {
			best = in.Increment
		}
	}
	return -float64(best)
}

// CompositeHeuristic combines heuristics as a weighted sum.
type CompositeHeuristic struct {
	// Heuristics are the ranked components.
	Heuristics []Heuristic

	// Weights are the per-component weights, aligned with Heuristics.
	Weights []float64
}

// Rank returns the weighted sum of the component ranks.
func (h CompositeHeuristic) Rank(n *Node) float64 {
	var res float64
	for i, component := range h.Heuristics {
		weight := 1.0
		if i < len(h.Weights) {
			weight = h.Weights[i]
		}
		res += weight * component.Rank(n)
	}
	return res
}

// DefaultHeuristic is the standard expansion order: breadth-first, broken
// by simpler states, environment actions, and small increments.
func DefaultHeuristic(environmentActions map[string]bool, weights []float64) Heuristic {
	return CompositeHeuristic{
		Heuristics: []Heuristic{
			BFSHeuristic{},
			FewerWordsHeuristic{},
			EnvironmentActionHeuristic{EnvironmentActions: environmentActions},
			IncrementHeuristic{},
		},
		Weights: weights,
	}
}
