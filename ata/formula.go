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

// Package ata implements alternating timed automata over MTL formula
// locations.
//
// Transition targets are positive boolean formulas over pairs of (location,
// optional clock reset) atoms, extended with atomic clock constraints. The
// formulas are stored as tagged variants in an arena; references between
// nodes are NodeID indices. This keeps the transition relation compact,
// makes structural sharing free, and allows minimal-model computation
// without chasing pointers.
package ata

import (
	"fmt"
	"strings"

	"github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/mtl"
)

// NodeID references a formula node inside an Arena.
type NodeID int32

type nodeKind int

const (
	nodeTrue nodeKind = iota
	nodeFalse
	nodeLocation
	nodeConstraint
	nodeReset
	nodeAnd
	nodeOr
)

type node struct {
	kind       nodeKind
	location   *mtl.Formula     // nodeLocation
	constraint clock.Constraint // nodeConstraint
	lhs, rhs   NodeID           // nodeAnd, nodeOr; lhs also for nodeReset
}

// Arena owns the formula nodes of an automaton's transition relation.
// The zero value is ready to use.
type Arena struct {
	nodes []node
}

func (a *Arena) add(n node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// True allocates the constant ⊤, which is satisfied by the empty
// configuration.
func (a *Arena) True() NodeID {
	return a.add(node{kind: nodeTrue})
}

// False allocates the constant ⊥, which no configuration satisfies.
func (a *Arena) False() NodeID {
	return a.add(node{kind: nodeFalse})
}

// Location allocates the atom ⟨q⟩: move to location q, keeping the clock.
func (a *Arena) Location(q *mtl.Formula) NodeID {
	return a.add(node{kind: nodeLocation, location: q})
}

// Constraint allocates an atomic clock constraint on the current state's
// clock.
func (a *Arena) Constraint(c clock.Constraint) NodeID {
	return a.add(node{kind: nodeConstraint, constraint: c})
}

// Reset allocates x.ϕ: evaluate the sub-formula with the clock reset to 0.
func (a *Arena) Reset(sub NodeID) NodeID {
	return a.add(node{kind: nodeReset, lhs: sub})
}

// And allocates the conjunction of two formulas.
func (a *Arena) And(lhs, rhs NodeID) NodeID {
	return a.add(node{kind: nodeAnd, lhs: lhs, rhs: rhs})
}

// Or allocates the disjunction of two formulas.
func (a *Arena) Or(lhs, rhs NodeID) NodeID {
	return a.add(node{kind: nodeOr, lhs: lhs, rhs: rhs})
}

// MinimalModels computes the minimal configurations (with respect to set
// inclusion) that satisfy the formula when evaluated at clock value v.
//
//   - ⊤ has the empty configuration as its single minimal model.
//   - ⊥ has no models.
//   - ⟨q⟩ contributes {(q, v)}; under a reset, {(q, 0)}.
//   - A clock constraint is a test: the empty model if satisfied, no model
//     otherwise.
//   - A conjunction takes the pairwise union of its operands' models, a
//     disjunction the union of the model sets; models that strictly include
//     another model are dropped from either result.
func (a *Arena) MinimalModels(id NodeID, v clock.Valuation) []Configuration {
	n := a.nodes[id]
	switch n.kind {
	case nodeTrue:
		return []Configuration{{}}
	case nodeFalse:
		return nil
	case nodeLocation:
		return []Configuration{{State{Location: n.location, Clock: v}}}
	case nodeConstraint:
		if n.constraint.Satisfied(v) {
			return []Configuration{{}}
		}
		return nil
	case nodeReset:
		return a.MinimalModels(n.lhs, 0)
	case nodeAnd:
		left := a.MinimalModels(n.lhs, v)
		right := a.MinimalModels(n.rhs, v)
		var res []Configuration
		for _, l := range left {
			for _, r := range right {
				res = appendConfiguration(res, l.union(r))
			}
		}
		return minimal(res)
	case nodeOr:
		res := a.MinimalModels(n.lhs, v)
		for _, r := range a.MinimalModels(n.rhs, v) {
			res = appendConfiguration(res, r)
		}
		return minimal(res)
	default:
		panic(fmt.Sprintf("ata: unknown formula node kind %d", n.kind))
	}
}

// minimal drops every model that strictly includes another model.
func minimal(models []Configuration) []Configuration {
	var res []Configuration
	for _, m := range models {
		redundant := false
		for _, other := range models {
			redundant = redundant || (len(other) < len(m) && m.contains(other))
		}
		if !redundant {
			res = append(res, m)
		}
	}
	return res
}

// Satisfied reports whether the formula holds for the given configuration at
// clock value v: some minimal model must be contained in the configuration.
func (a *Arena) Satisfied(id NodeID, cfg Configuration, v clock.Valuation) bool {
	for _, model := range a.MinimalModels(id, v) {
		if cfg.contains(model) {
			return true
		}
	}
	return false
}

// String renders the formula rooted at id.
func (a *Arena) String(id NodeID) string {
	n := a.nodes[id]
	switch n.kind {
	case nodeTrue:
		return "⊤"
	case nodeFalse:
		return "⊥"
	case nodeLocation:
		return "⟨" + n.location.String() + "⟩"
	case nodeConstraint:
		return "x " + n.constraint.String()
	case nodeReset:
		return "x." + a.String(n.lhs)
	case nodeAnd:
		return "(" + a.String(n.lhs) + " ∧ " + a.String(n.rhs) + ")"
	case nodeOr:
		return "(" + a.String(n.lhs) + " ∨ " + a.String(n.rhs) + ")"
	default:
		return "?"
	}
}

func appendConfiguration(cfgs []Configuration, c Configuration) []Configuration {
	for _, existing := range cfgs {
		if existing.Equal(c) {
			return cfgs
		}
	}
	return append(cfgs, c)
}

// State is a single alternating state: an MTL formula location together with
// the valuation of its private clock.
type State struct {
	// Location is the ATA location, itself an MTL formula.
	Location *mtl.Formula

	// Clock is the valuation of the state's clock.
	Clock clock.Valuation
}

// Compare orders states by location, then clock valuation.
func (s State) Compare(other State) int {
	if c := mtl.Compare(s.Location, other.Location); c != 0 {
		return c
	}
	switch {
	case s.Clock < other.Clock-clock.Epsilon:
		return -1
	case s.Clock > other.Clock+clock.Epsilon:
		return 1
	default:
		return 0
	}
}

// String renders the state as "(location, clock)".
func (s State) String() string {
	return fmt.Sprintf("(%s, %v)", s.Location, s.Clock)
}

// Configuration is a finite set of states, kept sorted and duplicate-free.
// The empty configuration is valid: it arises when every obligation has been
// discharged.
type Configuration []State

// NewConfiguration builds a configuration from the given states.
func NewConfiguration(states ...State) Configuration {
	var c Configuration
	for _, s := range states {
		c = c.Insert(s)
	}
	return c
}

// Insert returns the configuration with s added, preserving order and
// discarding duplicates.
func (c Configuration) Insert(s State) Configuration {
	lo, hi := 0, len(c)
	for lo < hi {
		mid := (lo + hi) / 2
		if c[mid].Compare(s) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(c) && c[lo].Compare(s) == 0 {
		return c
	}
	res := make(Configuration, 0, len(c)+1)
	res = append(res, c[:lo]...)
	res = append(res, s)
	res = append(res, c[lo:]...)
	return res
}

func (c Configuration) union(other Configuration) Configuration {
	res := make(Configuration, len(c))
	copy(res, c)
	for _, s := range other {
		res = res.Insert(s)
	}
	return res
}

func (c Configuration) contains(sub Configuration) bool {
	i := 0
	for _, want := range sub {
		for i < len(c) && c[i].Compare(want) < 0 {
			i++
		}
		if i >= len(c) || c[i].Compare(want) != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two configurations contain the same states.
func (c Configuration) Equal(other Configuration) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i].Compare(other[i]) != 0 {
			return false
		}
	}
	return true
}

// Advance returns the configuration with delta added to every clock.
func (c Configuration) Advance(delta clock.Valuation) Configuration {
	res := make(Configuration, len(c))
	for i, s := range c {
		res[i] = State{Location: s.Location, Clock: s.Clock + delta}
	}
	return res
}

// String renders the configuration as "{ s1, s2, ... }".
func (c Configuration) String() string {
	if len(c) == 0 {
		return "{}"
	}
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
