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

// Package controller projects a solved search graph into an executable
// controller: a timed automaton whose transitions carry the clock-region
// guards and resets of the winning strategy. The controller composed with
// the plant keeps every play inside the controller-winning region.
package controller

import (
	"errors"
	"fmt"

	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/region"
	"github.com/temposynth/engine/search"
)

// ErrNotRealizable indicates an extraction attempt from a root that is not
// controller-winning.
var ErrNotRealizable = errors.New("cannot extract a controller from a losing root")

// Create extracts the controller from a solved search. At every winning
// node the controller commits to one winning controllable action (the one
// with the smallest region increment); every environment edge that can
// occur before that commitment is kept as well. Guards are derived from
// the region indices of the plant clocks at the edge's time successor,
// resets from the plant transition taken.
func Create(ts *search.TreeSearch) (*plant.TimedAutomaton, error) {
	root := ts.Root()
	if root.Label() != search.LabelTop {
		return nil, ErrNotRealizable
	}

	names := map[string]string{}
	name := func(n *search.Node) string {
		if existing, ok := names[n.Key()]; ok {
			return existing
		}
		id := fmt.Sprintf("n%d_%s", len(names), n.Words()[0].PlantLocation())
		names[n.Key()] = id
		return id
	}

	controller := plant.NewTimedAutomaton(nil, name(root), []string{name(root)})
	for _, c := range clocksOf(ts) {
		controller.AddClock(c)
	}

	visited := map[string]bool{}
	queue := []*search.Node{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node.Key()] {
			continue
		}
		visited[node.Key()] = true

		for _, edge := range selectEdges(ts, node) {
			target := name(edge.Target)
			controller.AddFinalLocation(target)
			controller.AddAction(edge.Action)
			if err := controller.AddTransition(plant.Transition{
				Source: name(node),
				Target: target,
				Action: edge.Action,
				Guards: guardsFor(node, edge.Increment, ts.K()),
				Resets: edge.Resets,
			}); err != nil {
				return nil, err
			}
			queue = append(queue, edge.Target)
		}
	}
	return controller, nil
}

// selectEdges picks the edges the controller keeps at a winning node: the
// earliest winning controllable edge, plus every environment edge that may
// fire before it.
func selectEdges(ts *search.TreeSearch, node *search.Node) []search.Edge {
	const inf = ^region.Index(0)
	var chosen *search.Edge
	for i, e := range node.Children() {
		if !ts.IsControllerAction(e.Action) || e.Target.Label() != search.LabelTop {
			continue
		}
		if chosen == nil || e.Increment < chosen.Increment {
			chosen = &node.Children()[i]
		}
	}
	deadline := inf
	if chosen != nil {
		deadline = chosen.Increment
	}

	var res []search.Edge
	for _, e := range node.Children() {
		if ts.IsControllerAction(e.Action) {
			continue
		}
		if e.Increment < deadline && e.Target.Label() == search.LabelTop {
			res = append(res, e)
		}
	}
	if chosen != nil {
		res = append(res, *chosen)
	}
	return res
}

// guardsFor derives the clock constraints delimiting the regions the plant
// clocks are in after the edge's time increment.
func guardsFor(node *search.Node, increment region.Index, k uint) []plant.Guard {
	regA := node.Words()[0].RegA()
	aged := search.NthTimeSuccessor(regA, increment, k)
	regions := region.Set{K: k}

	var res []plant.Guard
	for _, partition := range aged {
		for _, symbol := range partition {
			for _, c := range regions.ConstraintsFromIndex(symbol.Region, region.BoundBoth) {
				res = append(res, plant.Guard{Clock: symbol.Clock, Constraint: c})
			}
		}
	}
	return res
}

func clocksOf(ts *search.TreeSearch) []string {
	var res []string
	for _, p := range ts.Root().Words()[0].RegA() {
		for _, s := range p {
			res = append(res, s.Clock)
		}
	}
	return res
}
