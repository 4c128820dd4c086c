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

import (
	"fmt"

	"github.com/temposynth/engine/clock"
)

// BoundKind classifies one end of a time interval.
type BoundKind int

const (
	// Weak is a closed (inclusive) bound.
	Weak BoundKind = iota
	// Strict is an open (exclusive) bound.
	Strict
	// Infinite marks the bound as absent. An infinite lower bound means 0,
	// an infinite upper bound means +∞.
	Infinite
)

// Interval is a time interval with non-negative integer endpoints. The zero
// value is the point interval [0, 0]; Unbounded returns [0, ∞).
type Interval struct {
	// LowerKind and UpperKind classify the two bounds.
	LowerKind, UpperKind BoundKind

	// Lower and Upper are the endpoint constants. They are ignored when the
	// corresponding kind is Infinite.
	Lower, Upper uint
}

// Unbounded returns the interval [0, ∞).
func Unbounded() Interval {
	return Interval{LowerKind: Infinite, UpperKind: Infinite}
}

// Contains reports whether the duration t lies within the interval.
func (i Interval) Contains(t clock.Valuation) bool {
	switch i.LowerKind {
	case Weak:
		if t < clock.Valuation(i.Lower)-clock.Epsilon {
			return false
		}
	case Strict:
		if t < clock.Valuation(i.Lower)+clock.Epsilon {
			return false
		}
	}
	switch i.UpperKind {
	case Weak:
		if t > clock.Valuation(i.Upper)+clock.Epsilon {
			return false
		}
	case Strict:
		if t > clock.Valuation(i.Upper)-clock.Epsilon {
			return false
		}
	}
	return true
}

// IsUnbounded reports whether the interval places no constraint at all.
func (i Interval) IsUnbounded() bool {
	return (i.LowerKind == Infinite || (i.LowerKind == Weak && i.Lower == 0)) &&
		i.UpperKind == Infinite
}

// LargestConstant returns the largest finite endpoint, or 0 if there is none.
func (i Interval) LargestConstant() uint {
	var res uint
	if i.LowerKind != Infinite && i.Lower > res {
		res = i.Lower
	}
	if i.UpperKind != Infinite && i.Upper > res {
		res = i.Upper
	}
	return res
}

// String renders the interval in standard bracket notation, e.g. "[0,2)".
func (i Interval) String() string {
	lb, ub := "[", "]"
	lower, upper := fmt.Sprint(i.Lower), fmt.Sprint(i.Upper)
	if i.LowerKind == Strict {
		lb = "("
	}
	if i.LowerKind == Infinite {
		lb, lower = "[", "0"
	}
	if i.UpperKind == Strict {
		ub = ")"
	}
	if i.UpperKind == Infinite {
		ub, upper = ")", "∞"
	}
	return fmt.Sprintf("%s%s,%s%s", lb, lower, upper, ub)
}
