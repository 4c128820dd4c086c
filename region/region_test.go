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

package region

import (
	"testing"

	"github.com/temposynth/engine/clock"
)

func TestIndex(t *testing.T) {
	s := Set{K: 2}
	tests := []struct {
		value clock.Valuation
		want  Index
	}{
		{0, 0},
		{0.3, 1},
		{1, 2},
		{1.7, 3},
		{2, 4},
		{2.5, 5},
		{3, 5},
		{100, 5},
	}

	for _, tt := range tests {
		if got := s.Index(tt.value); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestIncrementSaturates(t *testing.T) {
	s := Set{K: 1}
	r := Index(0)
	seen := []Index{r}
	for i := 0; i < 6; i++ {
		r = s.Increment(r)
		seen = append(seen, r)
	}
	want := []Index{0, 1, 2, 3, 3, 3, 3}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("increment chain = %v, want %v", seen, want)
		}
	}
}

func TestSatisfied(t *testing.T) {
	s := Set{K: 2}
	tests := []struct {
		name       string
		constraint clock.Constraint
		index      Index
		want       bool
	}{
		{"0 < 2 at region 0", clock.Constraint{Op: clock.Less, Comparand: 2}, 0, true},
		{"(0,1) < 1", clock.Constraint{Op: clock.Less, Comparand: 1}, 1, true},
		{"(1,2) < 1", clock.Constraint{Op: clock.Less, Comparand: 1}, 3, false},
		{"1 == 1", clock.Constraint{Op: clock.Equal, Comparand: 1}, 2, true},
		{"(0,1) == 1", clock.Constraint{Op: clock.Equal, Comparand: 1}, 1, false},
		{"(1,2) > 1", clock.Constraint{Op: clock.Greater, Comparand: 1}, 3, true},
		{"2 >= 2", clock.Constraint{Op: clock.GreaterEqual, Comparand: 2}, 4, true},
		{">K region > 2", clock.Constraint{Op: clock.Greater, Comparand: 2}, 5, true},
		{">K region < 2", clock.Constraint{Op: clock.Less, Comparand: 2}, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Satisfied(tt.constraint, tt.index); got != tt.want {
				t.Errorf("Satisfied(%s, %d) = %v, want %v", tt.constraint, tt.index, got, tt.want)
			}
		})
	}
}

func TestCandidateRoundTrips(t *testing.T) {
	s := Set{K: 3}
	for r := Index(0); r <= s.MaxIndex(); r++ {
		v := s.Candidate(r, 0, 2)
		if got := s.Index(v); got != r {
			t.Errorf("Index(Candidate(%d)) = %d, want %d", r, got, r)
		}
	}
}

func TestConstraintsFromIndex(t *testing.T) {
	s := Set{K: 2}
	tests := []struct {
		name  string
		index Index
		bound BoundType
		want  []clock.Constraint
	}{
		{"region 0 both", 0, BoundBoth, []clock.Constraint{{Op: clock.LessEqual, Comparand: 0}}},
		{"region 1 both", 1, BoundBoth, []clock.Constraint{
			{Op: clock.Less, Comparand: 1}, {Op: clock.Greater, Comparand: 0}}},
		{"region 4 lower", 4, BoundLower, []clock.Constraint{{Op: clock.GreaterEqual, Comparand: 2}}},
		{"absorbing upper", 5, BoundUpper, nil},
		{"absorbing both", 5, BoundBoth, []clock.Constraint{{Op: clock.Greater, Comparand: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ConstraintsFromIndex(tt.index, tt.bound)
			if len(got) != len(tt.want) {
				t.Fatalf("ConstraintsFromIndex(%d) = %v, want %v", tt.index, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("constraint %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
