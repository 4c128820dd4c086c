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

// Package translation builds the adversary automaton of a synthesis problem:
// an alternating timed automaton that accepts exactly the timed words
// violating a given MTL specification.
//
// The construction follows Ouaknine and Worrell: the specification is
// negated and normalized, and every until, dual-until, next, and weak-next
// subformula of the negation becomes one automaton location. A distinguished
// initial location consumes the first symbol of the word and dispatches the
// obligations of the negated formula. An until or dual-until obligation is
// checked against the very symbol that spawns it, so a single observation
// can already discharge or refute it. Obligations dispatched from the
// initial location inherit the aged clock and are therefore anchored at
// system start; fresh copies spawned inside a transition rule enter through
// a clock reset, anchoring them at the spawning symbol. The fixed-point
// occurrence of a location inside its own rule is reused without reset.
package translation

import (
	"errors"
	"fmt"

	"github.com/temposynth/engine/ata"
	"github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/mtl"
)

// ReservedInitial is the name of the automaton's initial location. It may
// not appear in the automaton's alphabet.
const ReservedInitial = "phi_i"

var (
	// ErrEmptyAlphabet indicates a translation without any input symbol.
	ErrEmptyAlphabet = errors.New("empty alphabet")

	// ErrReservedSymbol indicates an alphabet that contains the reserved
	// initial-location symbol. When the alphabet defaults to the
	// specification's propositions, this covers a specification using it.
	ErrReservedSymbol = errors.New("alphabet contains reserved symbol " + ReservedInitial)
)

// Translate builds an automaton accepting the complement of the language of
// spec. The alphabet defaults to the atomic propositions of the
// specification; pass the plant's symbols explicitly when they are a strict
// superset.
func Translate(spec *mtl.Formula, alphabet []string) (*ata.Automaton, error) {
	if len(alphabet) == 0 {
		alphabet = spec.Alphabet()
	}
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	for _, symbol := range alphabet {
		if symbol == ReservedInitial {
			return nil, ErrReservedSymbol
		}
	}

	negated := mtl.Not(spec).ToPositiveNormalForm()
	closure := negated.Closure()
	initial := mtl.AP(ReservedInitial)

	tr := &translator{arena: &ata.Arena{}}
	var transitions []ata.Transition
	for _, symbol := range alphabet {
		transitions = append(transitions, ata.Transition{
			Source: initial, Symbol: symbol, Formula: tr.dispatch(negated, symbol, false),
		})
		for _, loc := range closure {
			transitions = append(transitions, ata.Transition{
				Source: loc, Symbol: symbol, Formula: tr.rule(loc, symbol),
			})
		}
	}

	var accepting []*mtl.Formula
	for _, loc := range closure {
		switch loc.Op() {
		case mtl.OpDualUntil, mtl.OpDualNext:
			accepting = append(accepting, loc)
		}
	}
	return ata.NewAutomaton(tr.arena, alphabet, initial, accepting, transitions), nil
}

type translator struct {
	arena *ata.Arena
}

// dispatch computes the transition formula for the obligations of f while
// reading symbol. Boolean structure is resolved immediately against the
// symbol; until and dual-until obligations apply their rule right away, so
// the spawning symbol itself can discharge or refute them. When fresh is
// true the result is wrapped in a clock reset, anchoring the obligation at
// the current symbol; otherwise the inherited clock keeps running.
func (t *translator) dispatch(f *mtl.Formula, symbol string, fresh bool) ata.NodeID {
	wrap := func(id ata.NodeID) ata.NodeID {
		if fresh {
			return t.arena.Reset(id)
		}
		return id
	}
	switch f.Op() {
	case mtl.OpTrue:
		return t.arena.True()
	case mtl.OpFalse:
		return t.arena.False()
	case mtl.OpAP:
		if f.APName() == symbol {
			return t.arena.True()
		}
		return t.arena.False()
	case mtl.OpNot:
		// In normal form, negations only guard atomic propositions.
		if operand := f.Operands()[0]; operand.IsAP() && operand.APName() == symbol {
			return t.arena.False()
		}
		return t.arena.True()
	case mtl.OpAnd:
		ops := f.Operands()
		return t.arena.And(t.dispatch(ops[0], symbol, fresh), t.dispatch(ops[1], symbol, fresh))
	case mtl.OpOr:
		ops := f.Operands()
		return t.arena.Or(t.dispatch(ops[0], symbol, fresh), t.dispatch(ops[1], symbol, fresh))
	case mtl.OpUntil, mtl.OpDualUntil:
		return wrap(t.rule(f, symbol))
	case mtl.OpNext, mtl.OpDualNext:
		// A next obligation refers to the following symbol; entry only
		// installs the location.
		return wrap(t.arena.Location(f))
	default:
		panic(fmt.Sprintf("translation: unexpected operator %d", f.Op()))
	}
}

// rule computes the transition formula of a temporal location for one input
// symbol, evaluated at the location's own clock.
func (t *translator) rule(loc *mtl.Formula, symbol string) ata.NodeID {
	interval := loc.Interval()
	switch loc.Op() {
	case mtl.OpUntil:
		ops := loc.Operands()
		// Either the right-hand side holds now within the interval, or the
		// left-hand side holds and the obligation persists with its clock.
		return t.arena.Or(
			t.arena.And(t.dispatch(ops[1], symbol, true), t.contains(interval)),
			t.arena.And(t.dispatch(ops[0], symbol, true), t.arena.Location(loc)),
		)
	case mtl.OpDualUntil:
		ops := loc.Operands()
		return t.arena.And(
			t.arena.Or(t.dispatch(ops[1], symbol, true), t.excludes(interval)),
			t.arena.Or(t.dispatch(ops[0], symbol, true), t.arena.Location(loc)),
		)
	case mtl.OpNext:
		return t.arena.And(t.dispatch(loc.Operands()[0], symbol, true), t.contains(interval))
	case mtl.OpDualNext:
		return t.arena.Or(t.dispatch(loc.Operands()[0], symbol, true), t.excludes(interval))
	default:
		panic(fmt.Sprintf("translation: location is not temporal: %s", loc))
	}
}

// contains builds the clock-constraint formula for x ∈ I.
func (t *translator) contains(i mtl.Interval) ata.NodeID {
	lower, upper := t.arena.True(), t.arena.True()
	switch i.LowerKind {
	case mtl.Weak:
		lower = t.arena.Constraint(clock.Constraint{Op: clock.GreaterEqual, Comparand: i.Lower})
	case mtl.Strict:
		lower = t.arena.Constraint(clock.Constraint{Op: clock.Greater, Comparand: i.Lower})
	}
	switch i.UpperKind {
	case mtl.Weak:
		upper = t.arena.Constraint(clock.Constraint{Op: clock.LessEqual, Comparand: i.Upper})
	case mtl.Strict:
		upper = t.arena.Constraint(clock.Constraint{Op: clock.Less, Comparand: i.Upper})
	}
	return t.arena.And(lower, upper)
}

// excludes builds the clock-constraint formula for x ∉ I.
func (t *translator) excludes(i mtl.Interval) ata.NodeID {
	lower, upper := t.arena.False(), t.arena.False()
	switch i.LowerKind {
	case mtl.Weak:
		lower = t.arena.Constraint(clock.Constraint{Op: clock.Less, Comparand: i.Lower})
	case mtl.Strict:
		lower = t.arena.Constraint(clock.Constraint{Op: clock.LessEqual, Comparand: i.Lower})
	}
	switch i.UpperKind {
	case mtl.Weak:
		upper = t.arena.Constraint(clock.Constraint{Op: clock.Greater, Comparand: i.Upper})
	case mtl.Strict:
		upper = t.arena.Constraint(clock.Constraint{Op: clock.GreaterEqual, Comparand: i.Upper})
	}
	return t.arena.Or(lower, upper)
}
