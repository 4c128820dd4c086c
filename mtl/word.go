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

package mtl

import "github.com/temposynth/engine/clock"

// Letter is one observation of a timed word: the set of atomic propositions
// that hold, together with the absolute time of the observation.
type Letter struct {
	// Symbols are the atomic propositions holding at this position.
	Symbols []string

	// Time is the absolute timestamp of the observation.
	Time clock.Valuation
}

func (l Letter) holds(ap string) bool {
	for _, s := range l.Symbols {
		if s == ap {
			return true
		}
	}
	return false
}

// Word is a finite timed word. It serves as the satisfaction oracle in tests:
// the specification automaton built from a formula must agree with SatisfiesAt
// on every word.
type Word []Letter

// Satisfies reports whether the word satisfies f at its first position.
func (w Word) Satisfies(f *Formula) bool {
	return w.SatisfiesAt(f, 0)
}

// SatisfiesAt reports whether the word satisfies f at position i.
//
// ϕ U_I ψ requires a position j >= i with t_j - t_i ∈ I satisfying ψ, with ϕ
// holding at every position from i up to but excluding j. The current
// position itself may discharge the until, matching the automaton
// construction where an obligation is checked against the symbol that spawns
// it.
func (w Word) SatisfiesAt(f *Formula, i int) bool {
	switch f.op {
	case OpTrue:
		return true
	case OpFalse:
		return false
	case OpAP:
		return i < len(w) && w[i].holds(f.ap)
	case OpNot:
		return !w.SatisfiesAt(f.operands[0], i)
	case OpAnd:
		return w.SatisfiesAt(f.operands[0], i) && w.SatisfiesAt(f.operands[1], i)
	case OpOr:
		return w.SatisfiesAt(f.operands[0], i) || w.SatisfiesAt(f.operands[1], i)
	case OpUntil:
		for j := i; j < len(w); j++ {
			if f.interval.Contains(w[j].Time-w[i].Time) && w.SatisfiesAt(f.operands[1], j) {
				allHold := true
				for k := i; k < j; k++ {
					if !w.SatisfiesAt(f.operands[0], k) {
						allHold = false
						break
					}
				}
				if allHold {
					return true
				}
			}
		}
		return false
	case OpDualUntil:
		// ϕ D_I ψ = ¬(¬ϕ U_I ¬ψ)
		return !w.SatisfiesAt(Until(Not(f.operands[0]), Not(f.operands[1]), f.interval), i)
	case OpNext:
		j := i + 1
		return j < len(w) && f.interval.Contains(w[j].Time-w[i].Time) &&
			w.SatisfiesAt(f.operands[0], j)
	case OpDualNext:
		j := i + 1
		if j >= len(w) || !f.interval.Contains(w[j].Time-w[i].Time) {
			return true
		}
		return w.SatisfiesAt(f.operands[0], j)
	default:
		return false
	}
}
