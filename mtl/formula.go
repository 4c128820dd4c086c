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

// Package mtl implements metric temporal logic formulas: construction,
// normalization to negation normal form, closure computation, and a parser
// for the textual specification syntax.
//
// Formulas are immutable value trees. Every formula carries a canonical key
// string computed at construction, which makes structural equality, total
// ordering, and use as a map key cheap. Timed operators carry an integer
// Interval; the largest interval constant of a specification contributes to
// the region bound K of the search.
package mtl

import (
	"fmt"
	"sort"
	"strings"
)

// Op is the top-level operator of a formula.
type Op int

const (
	// OpTrue is the constant ⊤.
	OpTrue Op = iota
	// OpFalse is the constant ⊥.
	OpFalse
	// OpAP is an atomic proposition.
	OpAP
	// OpNot is negation.
	OpNot
	// OpAnd is conjunction.
	OpAnd
	// OpOr is disjunction.
	OpOr
	// OpUntil is the timed until ϕ U_I ψ.
	OpUntil
	// OpDualUntil is the timed dual until ϕ D_I ψ, the negation dual of until.
	OpDualUntil
	// OpNext is the timed next ◯_I ϕ.
	OpNext
	// OpDualNext is the timed weak next, the negation dual of next.
	OpDualNext
)

// Formula is an MTL formula node. Formulas are immutable; use the package
// constructors to build them.
type Formula struct {
	op       Op
	ap       string
	interval Interval
	operands []*Formula
	key      string
}

var (
	trueFormula  = &Formula{op: OpTrue, key: "1"}
	falseFormula = &Formula{op: OpFalse, key: "0"}
)

// True returns the constant ⊤.
func True() *Formula { return trueFormula }

// False returns the constant ⊥.
func False() *Formula { return falseFormula }

// AP returns the atomic proposition with the given name.
func AP(name string) *Formula {
	return &Formula{op: OpAP, ap: name, key: "p:" + name}
}

// Not returns the negation of f.
func Not(f *Formula) *Formula {
	return &Formula{op: OpNot, operands: []*Formula{f}, key: "!(" + f.key + ")"}
}

// And returns the conjunction of l and r.
func And(l, r *Formula) *Formula {
	return &Formula{op: OpAnd, operands: []*Formula{l, r}, key: "&(" + l.key + ")(" + r.key + ")"}
}

// Or returns the disjunction of l and r.
func Or(l, r *Formula) *Formula {
	return &Formula{op: OpOr, operands: []*Formula{l, r}, key: "|(" + l.key + ")(" + r.key + ")"}
}

// Until returns l U_I r.
func Until(l, r *Formula, i Interval) *Formula {
	return &Formula{
		op: OpUntil, interval: i, operands: []*Formula{l, r},
		key: "U" + i.String() + "(" + l.key + ")(" + r.key + ")",
	}
}

// DualUntil returns l D_I r, equivalent to ¬(¬l U_I ¬r).
func DualUntil(l, r *Formula, i Interval) *Formula {
	return &Formula{
		op: OpDualUntil, interval: i, operands: []*Formula{l, r},
		key: "D" + i.String() + "(" + l.key + ")(" + r.key + ")",
	}
}

// Next returns ◯_I f: the next symbol occurs after a delay within I and
// satisfies f.
func Next(f *Formula, i Interval) *Formula {
	return &Formula{
		op: OpNext, interval: i, operands: []*Formula{f},
		key: "X" + i.String() + "(" + f.key + ")",
	}
}

// DualNext returns the weak next: every next symbol read after a delay
// within I satisfies f. It holds vacuously if no further symbol is read.
func DualNext(f *Formula, i Interval) *Formula {
	return &Formula{
		op: OpDualNext, interval: i, operands: []*Formula{f},
		key: "W" + i.String() + "(" + f.key + ")",
	}
}

// Finally returns ◇_I f, defined as ⊤ U_I f.
func Finally(f *Formula, i Interval) *Formula {
	return Until(True(), f, i)
}

// Globally returns □_I f, defined as ⊥ D_I f.
func Globally(f *Formula, i Interval) *Formula {
	return DualUntil(False(), f, i)
}

// Op returns the top-level operator.
func (f *Formula) Op() Op { return f.op }

// APName returns the proposition name of an OpAP formula.
func (f *Formula) APName() string { return f.ap }

// Interval returns the time interval of a timed operator.
func (f *Formula) Interval() Interval { return f.interval }

// Operands returns the operand slice. It must not be modified.
func (f *Formula) Operands() []*Formula { return f.operands }

// IsAP reports whether the formula is a bare atomic proposition.
func (f *Formula) IsAP() bool { return f.op == OpAP }

// Key returns the canonical key of the formula. Two formulas are
// structurally equal iff their keys are equal.
func (f *Formula) Key() string { return f.key }

// Equal reports structural equality.
func (f *Formula) Equal(other *Formula) bool {
	return f.key == other.key
}

// Compare totally orders formulas by their canonical keys. It returns a
// negative, zero, or positive value analogous to strings.Compare.
func Compare(a, b *Formula) int {
	return strings.Compare(a.key, b.key)
}

// ToPositiveNormalForm pushes every negation down to the atomic
// propositions, using the dualities ¬(ϕ U ψ) = ¬ϕ D ¬ψ, ¬(ϕ D ψ) = ¬ϕ U ¬ψ,
// ¬◯ϕ = weak-next ¬ϕ, and De Morgan's laws.
func (f *Formula) ToPositiveNormalForm() *Formula {
	return toPNF(f, false)
}

func toPNF(f *Formula, negated bool) *Formula {
	switch f.op {
	case OpTrue:
		if negated {
			return False()
		}
		return f
	case OpFalse:
		if negated {
			return True()
		}
		return f
	case OpAP:
		if negated {
			return Not(f)
		}
		return f
	case OpNot:
		return toPNF(f.operands[0], !negated)
	case OpAnd:
		l, r := toPNF(f.operands[0], negated), toPNF(f.operands[1], negated)
		if negated {
			return Or(l, r)
		}
		return And(l, r)
	case OpOr:
		l, r := toPNF(f.operands[0], negated), toPNF(f.operands[1], negated)
		if negated {
			return And(l, r)
		}
		return Or(l, r)
	case OpUntil:
		l, r := toPNF(f.operands[0], negated), toPNF(f.operands[1], negated)
		if negated {
			return DualUntil(l, r, f.interval)
		}
		return Until(l, r, f.interval)
	case OpDualUntil:
		l, r := toPNF(f.operands[0], negated), toPNF(f.operands[1], negated)
		if negated {
			return Until(l, r, f.interval)
		}
		return DualUntil(l, r, f.interval)
	case OpNext:
		o := toPNF(f.operands[0], negated)
		if negated {
			return DualNext(o, f.interval)
		}
		return Next(o, f.interval)
	case OpDualNext:
		o := toPNF(f.operands[0], negated)
		if negated {
			return Next(o, f.interval)
		}
		return DualNext(o, f.interval)
	default:
		panic(fmt.Sprintf("mtl: unknown operator %d", f.op))
	}
}

// Closure returns the set of subformulas that become locations of the
// specification automaton: every until, dual-until, next, and weak-next
// subformula, ordered canonically. The formula should be in positive normal
// form.
func (f *Formula) Closure() []*Formula {
	seen := map[string]*Formula{}
	f.walk(func(sub *Formula) {
		switch sub.op {
		case OpUntil, OpDualUntil, OpNext, OpDualNext:
			seen[sub.key] = sub
		}
	})
	return sortedFormulas(seen)
}

// SubformulasOfType returns all subformulas with the given top-level
// operator, ordered canonically.
func (f *Formula) SubformulasOfType(op Op) []*Formula {
	seen := map[string]*Formula{}
	f.walk(func(sub *Formula) {
		if sub.op == op {
			seen[sub.key] = sub
		}
	})
	return sortedFormulas(seen)
}

// Alphabet returns the names of all atomic propositions in the formula,
// sorted.
func (f *Formula) Alphabet() []string {
	seen := map[string]bool{}
	f.walk(func(sub *Formula) {
		if sub.op == OpAP {
			seen[sub.ap] = true
		}
	})
	res := make([]string, 0, len(seen))
	for name := range seen {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// LargestConstant returns the largest interval endpoint appearing in the
// formula. It contributes to the region bound K.
func (f *Formula) LargestConstant() uint {
	var res uint
	f.walk(func(sub *Formula) {
		switch sub.op {
		case OpUntil, OpDualUntil, OpNext, OpDualNext:
			if c := sub.interval.LargestConstant(); c > res {
				res = c
			}
		}
	})
	return res
}

func (f *Formula) walk(visit func(*Formula)) {
	visit(f)
	for _, o := range f.operands {
		o.walk(visit)
	}
}

// String renders the formula with the conventional unicode operators.
func (f *Formula) String() string {
	switch f.op {
	case OpTrue:
		return "⊤"
	case OpFalse:
		return "⊥"
	case OpAP:
		return f.ap
	case OpNot:
		return "¬" + f.operands[0].parenString()
	case OpAnd:
		return f.operands[0].parenString() + " ∧ " + f.operands[1].parenString()
	case OpOr:
		return f.operands[0].parenString() + " ∨ " + f.operands[1].parenString()
	case OpUntil:
		return f.operands[0].parenString() + " U" + f.interval.String() + " " + f.operands[1].parenString()
	case OpDualUntil:
		return f.operands[0].parenString() + " D" + f.interval.String() + " " + f.operands[1].parenString()
	case OpNext:
		return "◯" + f.interval.String() + " " + f.operands[0].parenString()
	case OpDualNext:
		return "◯̃" + f.interval.String() + " " + f.operands[0].parenString()
	default:
		return "?"
	}
}

func (f *Formula) parenString() string {
	switch f.op {
	case OpTrue, OpFalse, OpAP, OpNot:
		return f.String()
	default:
		return "(" + f.String() + ")"
	}
}

func sortedFormulas(m map[string]*Formula) []*Formula {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	res := make([]*Formula, len(keys))
	for i, k := range keys {
		res[i] = m[k]
	}
	return res
}
