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

package clock

import "testing"

func TestIntegerAndFractionalPart(t *testing.T) {
	tests := []struct {
		name     string
		value    Valuation
		wantInt  uint
		wantFrac Valuation
	}{
		{"zero", 0, 0, 0},
		{"integer", 3, 3, 0},
		{"plain fraction", 2.5, 2, 0.5},
		{"almost next integer", 2.9999999999, 3, 0},
		{"just above integer", 3.0000000001, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntegerPart(tt.value); got != tt.wantInt {
				t.Errorf("IntegerPart(%v) = %d, want %d", tt.value, got, tt.wantInt)
			}
			got := FractionalPart(tt.value)
			if !IsNearZero(got - tt.wantFrac) {
				t.Errorf("FractionalPart(%v) = %v, want %v", tt.value, got, tt.wantFrac)
			}
		})
	}
}

func TestConstraintSatisfied(t *testing.T) {
	tests := []struct {
		constraint Constraint
		value      Valuation
		want       bool
	}{
		{Constraint{Less, 2}, 1.5, true},
		{Constraint{Less, 2}, 2, false},
		{Constraint{LessEqual, 2}, 2, true},
		{Constraint{LessEqual, 2}, 2.1, false},
		{Constraint{Equal, 1}, 1, true},
		{Constraint{Equal, 1}, 0.9999999999, true},
		{Constraint{Equal, 1}, 1.5, false},
		{Constraint{GreaterEqual, 1}, 1, true},
		{Constraint{GreaterEqual, 1}, 0.5, false},
		{Constraint{Greater, 1}, 1, false},
		{Constraint{Greater, 1}, 1.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint.String(), func(t *testing.T) {
			if got := tt.constraint.Satisfied(tt.value); got != tt.want {
				t.Errorf("(%s).Satisfied(%v) = %v, want %v", tt.constraint, tt.value, got, tt.want)
			}
		})
	}
}

func TestMapAdvance(t *testing.T) {
	m := Map{"x": 0.5, "y": 2}
	adv := m.Advance(1.5)
	if adv["x"] != 2 || adv["y"] != 3.5 {
		t.Errorf("Advance(1.5) = %v, want x=2 y=3.5", adv)
	}
	if m["x"] != 0.5 {
		t.Errorf("Advance mutated the receiver: %v", m)
	}
}
