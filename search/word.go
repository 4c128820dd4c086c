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

// Package search implements the symbolic game solver at the core of the
// synthesis engine: canonical words over the regionalized product of a
// plant and the specification automaton, their time and action successors,
// and the labelled search graph deciding which player wins.
//
// A canonical word abstracts one concrete product state (plant
// configuration, automaton configuration) into a finite representation: the
// clocks of both components are expanded into symbols carrying a region
// index, and the symbols are partitioned by the fractional parts of their
// clock values, keeping only the order of the fractions. Two product states
// with the same canonical word are game-equivalent, which makes the search
// space finite.
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/temposynth/engine/ata"
	"github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/mtl"
	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/region"
)

// ErrInvalidWord indicates a canonical word violating its structural
// invariants, or a plant without clocks. For words built during the search
// it indicates a bug in the successor computation.
var ErrInvalidWord = errors.New("invalid canonical word")

// SymbolKind distinguishes the two components contributing to a canonical
// word.
type SymbolKind int

const (
	// SymbolPlant is a plant clock symbol.
	SymbolPlant SymbolKind = iota
	// SymbolATA is a specification-automaton state symbol.
	SymbolATA
)

// Symbol is one regionalized component of a canonical word: either a plant
// clock (location, clock name, region) or an automaton state (location
// formula, region).
type Symbol struct {
	// Kind selects which fields are meaningful.
	Kind SymbolKind

	// Location is the plant location (plant symbols only).
	Location string

	// Clock is the plant clock name (plant symbols only).
	Clock string

	// Formula is the automaton location (ATA symbols only).
	Formula *mtl.Formula

	// Region is the clock's region index.
	Region region.Index
}

// Compare orders symbols: plant symbols before automaton symbols, then by
// location, clock, and region.
func (s Symbol) Compare(other Symbol) int {
	if s.Kind != other.Kind {
		if s.Kind == SymbolPlant {
			return -1
		}
		return 1
	}
	if s.Kind == SymbolPlant {
		if s.Location != other.Location {
			return strings.Compare(s.Location, other.Location)
		}
		if s.Clock != other.Clock {
			return strings.Compare(s.Clock, other.Clock)
		}
		return int(s.Region) - int(other.Region)
	}
	if c := mtl.Compare(s.Formula, other.Formula); c != 0 {
		return c
	}
	return int(s.Region) - int(other.Region)
}

// String renders the symbol as "(location, clock, region)" or
// "(formula, region)".
func (s Symbol) String() string {
	if s.Kind == SymbolPlant {
		return fmt.Sprintf("(%s, %s, %d)", s.Location, s.Clock, s.Region)
	}
	return fmt.Sprintf("(%s, %d)", s.Formula, s.Region)
}

// Partition is one equivalence class of a canonical word: symbols whose
// clocks share the same fractional part, kept sorted.
type Partition []Symbol

func (p Partition) insert(s Symbol) Partition {
	lo, hi := 0, len(p)
	for lo < hi {
		mid := (lo + hi) / 2
		if p[mid].Compare(s) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(p) && p[lo].Compare(s) == 0 {
		return p
	}
	res := make(Partition, 0, len(p)+1)
	res = append(res, p[:lo]...)
	res = append(res, s)
	res = append(res, p[lo:]...)
	return res
}

func (p Partition) contains(sub Partition) bool {
	i := 0
	for _, want := range sub {
		for i < len(p) && p[i].Compare(want) < 0 {
			i++
		}
		if i >= len(p) || p[i].Compare(want) != 0 {
			return false
		}
	}
	return true
}

// String renders the partition as "{ s1, s2 }".
func (p Partition) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Word is a canonical word: a sequence of partitions ordered by ascending
// fractional part of the underlying clock values. Only the order of the
// fractions is retained, which makes the abstraction finite. Words are
// treated as immutable once built.
type Word []Partition

// NewWord computes the canonical word of a product state. The plant clocks
// and the automaton states are expanded into symbols, regionalized with
// bound K, partitioned by the fractional parts of their clock values, and
// ordered canonically.
func NewWord(plantCfg plant.Configuration, ataCfg ata.Configuration, k uint) (Word, error) {
	if len(plantCfg.Clocks) == 0 {
		return nil, fmt.Errorf("%w: plant without clocks", ErrInvalidWord)
	}
	regions := region.Set{K: k}

	type entry struct {
		symbol Symbol
		frac   clock.Valuation
	}
	var entries []entry
	for name, v := range plantCfg.Clocks {
		entries = append(entries, entry{
			symbol: Symbol{
				Kind:     SymbolPlant,
				Location: plantCfg.Location,
				Clock:    name,
				Region:   regions.Index(v),
			},
			frac: clock.FractionalPart(v),
		})
	}
	for _, s := range ataCfg {
		entries = append(entries, entry{
			symbol: Symbol{Kind: SymbolATA, Formula: s.Location, Region: regions.Index(s.Clock)},
			frac:   clock.FractionalPart(s.Clock),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].frac < entries[j].frac-clock.Epsilon
	})

	var word Word
	lastFrac := clock.Valuation(-1)
	for _, e := range entries {
		if len(word) == 0 || !clock.IsNearZero(e.frac-lastFrac) {
			word = append(word, Partition{})
			lastFrac = e.frac
		}
		word[len(word)-1] = word[len(word)-1].insert(e.symbol)
	}
	if err := word.Validate(k); err != nil {
		return nil, err
	}
	return word, nil
}

// Validate checks the structural invariants of a canonical word: it is
// non-empty, contains no empty partition, never mixes integer (even) and
// fractional (odd) regions within a partition, only its first partition may
// hold integer regions, and every region index is within bounds.
func (w Word) Validate(k uint) error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty word", ErrInvalidWord)
	}
	maxIndex := region.Set{K: k}.MaxIndex()
	for i, p := range w {
		if len(p) == 0 {
			return fmt.Errorf("%w: empty partition at %d", ErrInvalidWord, i)
		}
		hasEven, hasOdd := false, false
		for _, s := range p {
			if s.Region > maxIndex {
				return fmt.Errorf("%w: region %d exceeds maximum %d", ErrInvalidWord, s.Region, maxIndex)
			}
			if s.Region%2 == 0 {
				hasEven = true
			} else {
				hasOdd = true
			}
		}
		if hasEven && hasOdd {
			return fmt.Errorf("%w: mixed even and odd regions in partition %d", ErrInvalidWord, i)
		}
		if hasEven && i > 0 {
			return fmt.Errorf("%w: integer region outside the first partition (%d)", ErrInvalidWord, i)
		}
	}
	return nil
}

// Key returns the canonical string of the word. Two words are equal iff
// their keys are equal.
func (w Word) Key() string {
	var sb strings.Builder
	for i, p := range w {
		if i > 0 {
			sb.WriteByte('|')
		}
		for j, s := range p {
			if j > 0 {
				sb.WriteByte(';')
			}
			if s.Kind == SymbolPlant {
				fmt.Fprintf(&sb, "P:%s:%s:%d", s.Location, s.Clock, s.Region)
			} else {
				fmt.Fprintf(&sb, "A:%s:%d", s.Formula.Key(), s.Region)
			}
		}
	}
	return sb.String()
}

// Equal reports structural equality of two words.
func (w Word) Equal(other Word) bool {
	if len(w) != len(other) {
		return false
	}
	for i := range w {
		if len(w[i]) != len(other[i]) {
			return false
		}
		for j := range w[i] {
			if w[i][j].Compare(other[i][j]) != 0 {
				return false
			}
		}
	}
	return true
}

// Compare totally orders words by their canonical keys.
func (w Word) Compare(other Word) int {
	return strings.Compare(w.Key(), other.Key())
}

// String renders the word as "[ {..} {..} ]".
func (w Word) String() string {
	parts := make([]string, len(w))
	for i, p := range w {
		parts[i] = p.String()
	}
	return "[ " + strings.Join(parts, " ") + " ]"
}

// PlantLocation returns the plant location shared by the word's plant
// symbols.
func (w Word) PlantLocation() string {
	for _, p := range w {
		for _, s := range p {
			if s.Kind == SymbolPlant {
				return s.Location
			}
		}
	}
	return ""
}

// RegA projects the word to its plant component: every automaton symbol is
// dropped, and partitions left empty are removed. The projection identifies
// words that agree on the observable plant state.
func (w Word) RegA() Word {
	var res Word
	for _, p := range w {
		var filtered Partition
		for _, s := range p {
			if s.Kind == SymbolPlant {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) > 0 {
			res = append(res, filtered)
		}
	}
	return res
}

// ataPart returns the automaton symbols of the word, in word order.
func (w Word) ataPart() []Symbol {
	var res []Symbol
	for _, p := range w {
		for _, s := range p {
			if s.Kind == SymbolATA {
				res = append(res, s)
			}
		}
	}
	return res
}

// MonotonicallyDominates reports whether w dominates other: both words
// agree on the plant component, and w's automaton obligations are a subset
// of other's, matched partition by partition in order. A dominating word is
// at least as dangerous for the controller, so dominated words can be
// pruned without changing the game value.
func (w Word) MonotonicallyDominates(other Word) bool {
	if !w.RegA().Equal(other.RegA()) {
		return false
	}
	// Every partition of w must embed, in order, into a partition of other.
	next := 0
	for _, p := range w {
		found := false
		for j := next; j < len(other); j++ {
			if other[j].contains(p) {
				next = j + 1
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Candidate reconstructs one concrete product state represented by the
// word. Integer regions map to their integer value; fractional regions of
// partition i receive the fractional part (i+1)/(n+1), preserving the
// partition order.
func (w Word) Candidate(k uint) (plant.Configuration, ata.Configuration) {
	plantCfg := plant.Configuration{Clocks: clock.Map{}}
	var ataCfg ata.Configuration
	regions := region.Set{K: k}
	for i, p := range w {
		for _, s := range p {
			v := regions.Candidate(s.Region, i, len(w))
			if s.Kind == SymbolPlant {
				plantCfg.Location = s.Location
				plantCfg.Clocks[s.Clock] = v
			} else {
				ataCfg = ataCfg.Insert(ata.State{Location: s.Formula, Clock: v})
			}
		}
	}
	return plantCfg, ataCfg
}

// WordSet is an ordered, duplicate-free set of canonical words with
// monotone-domination pruning on insertion.
type WordSet struct {
	words []Word
}

// Insert adds a word to the set. If an existing word dominates it, the set
// is unchanged; any existing word it dominates is dropped.
func (ws *WordSet) Insert(w Word) {
	kept := ws.words[:0]
	for _, existing := range ws.words {
		if existing.MonotonicallyDominates(w) {
			return
		}
		if !w.MonotonicallyDominates(existing) {
			kept = append(kept, existing)
		}
	}
	ws.words = kept

	key := w.Key()
	lo, hi := 0, len(ws.words)
	for lo < hi {
		mid := (lo + hi) / 2
		if ws.words[mid].Key() < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(ws.words) && ws.words[lo].Key() == key {
		return
	}
	ws.words = append(ws.words, nil)
	copy(ws.words[lo+1:], ws.words[lo:])
	ws.words[lo] = w
}

// Words returns the set's contents in canonical order.
func (ws *WordSet) Words() []Word {
	return ws.words
}

// Len returns the number of words in the set.
func (ws *WordSet) Len() int {
	return len(ws.words)
}
