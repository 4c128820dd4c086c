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

// Package region implements the one-dimensional region abstraction for
// bounded clocks.
//
// Given the largest constant K that any clock is compared against, the
// non-negative reals are partitioned into 2K+2 regions indexed 0..2K+1:
//
//   - even index 2k   represents the single integer value k (k <= K),
//   - odd index 2k+1  represents the open interval (k, k+1) (k < K),
//   - index 2K+1      represents every value strictly greater than K.
//
// Two valuations in the same region satisfy exactly the same constraints
// with comparands up to K, so the search can operate on indices instead of
// real values. The top region 2K+1 is absorbing under time elapse.
package region

import (
	"github.com/temposynth/engine/clock"
)

// Index identifies a clock region. Valid indices lie in [0, 2K+1].
type Index = uint

// BoundType selects which constraints ConstraintsFromIndex derives from a
// region: the lower bound, the upper bound, or both.
type BoundType int

const (
	// BoundBoth derives lower and upper constraints.
	BoundBoth BoundType = iota
	// BoundLower derives only the lower constraint.
	BoundLower
	// BoundUpper derives only the upper constraint.
	BoundUpper
)

// Set is the family of regions induced by the largest constant K.
type Set struct {
	// K is the largest constant any clock is compared against.
	K uint
}

// MaxIndex returns the absorbing region index 2K+1.
func (s Set) MaxIndex() Index {
	return 2*s.K + 1
}

// Index returns the region index of a clock valuation.
func (s Set) Index(v clock.Valuation) Index {
	if v > clock.Valuation(s.K)+clock.Epsilon {
		return s.MaxIndex()
	}
	intPart := clock.IntegerPart(v)
	if clock.IsNearZero(clock.FractionalPart(v)) {
		return 2 * intPart
	}
	return 2*intPart + 1
}

// Increment returns the region that follows r under time elapse: an even
// region moves into the open interval above it, an odd region reaches the
// next integer. The absorbing region is returned unchanged.
func (s Set) Increment(r Index) Index {
	if r >= s.MaxIndex() {
		return s.MaxIndex()
	}
	return r + 1
}

// Satisfied reports whether every valuation in region r satisfies the
// constraint. The comparand must be at most K, otherwise regions cannot
// distinguish the constraint and the result is meaningless.
func (s Set) Satisfied(c clock.Constraint, r Index) bool {
	if r >= s.MaxIndex() {
		// Strictly above K: only lower bounds can hold.
		return c.Op == clock.Greater || c.Op == clock.GreaterEqual
	}
	k := r / 2
	if r%2 == 0 {
		return c.Satisfied(clock.Valuation(k))
	}
	// Open interval (k, k+1): the constraint must hold on the whole interval.
	switch c.Op {
	case clock.Less, clock.LessEqual:
		return c.Comparand >= k+1
	case clock.Greater, clock.GreaterEqual:
		return c.Comparand <= k
	default:
		return false
	}
}

// Candidate returns a concrete valuation inside region r. For fractional
// regions, including the absorbing one, the fractional part is chosen as
// (slot+1)/(slots+1) so that distinct slots yield distinct, strictly
// ordered fractions; this keeps re-canonicalization of a candidate the
// identity. For integer regions the slot is ignored.
func (s Set) Candidate(r Index, slot, slots int) clock.Valuation {
	integral := clock.Valuation(r / 2)
	if r%2 == 0 {
		return integral
	}
	return integral + clock.Valuation(slot+1)/clock.Valuation(slots+1)
}

// ConstraintsFromIndex derives the atomic clock constraints that delimit
// region r. The absorbing region has no upper bound and region 0 has no
// lower bound.
func (s Set) ConstraintsFromIndex(r Index, bound BoundType) []clock.Constraint {
	getLower := bound == BoundBoth || bound == BoundLower
	getUpper := bound == BoundBoth || bound == BoundUpper

	var res []clock.Constraint
	if getUpper && r < s.MaxIndex() {
		if r%2 == 0 {
			res = append(res, clock.Constraint{Op: clock.LessEqual, Comparand: r / 2})
		} else {
			res = append(res, clock.Constraint{Op: clock.Less, Comparand: (r + 1) / 2})
		}
	}
	if getLower && r > 0 {
		if r%2 == 0 {
			res = append(res, clock.Constraint{Op: clock.GreaterEqual, Comparand: r / 2})
		} else {
			res = append(res, clock.Constraint{Op: clock.Greater, Comparand: r / 2})
		}
	}
	return res
}
