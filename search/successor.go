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

package search

import (
	"fmt"
	"sort"

	"github.com/temposynth/engine/ata"
	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/region"
)

// TimeSuccessor returns the canonical word directly following w in time:
// the partition with the largest fractional part crosses into the next
// region. Symbols reaching the absorbing region merge into the trailing
// maxed partition. A word whose every symbol is already maxed is its own
// time successor.
func TimeSuccessor(w Word, k uint) Word {
	if len(w) == 0 {
		return w
	}
	regions := region.Set{K: k}
	maxIndex := regions.MaxIndex()

	// Split off the trailing partition when it is fully absorbed; it never
	// moves again.
	maxed := Partition{}
	last := len(w) - 1
	if allMaxed(w[last], maxIndex) {
		maxed = w[last]
		last--
	}
	if last < 0 {
		// Every symbol is absorbed, nothing to increment.
		return w
	}

	var res Word

	// The last non-maxed partition crosses to the next region. Its symbols
	// reach an integer (or the absorbing region), so the survivors become
	// the new first partition.
	incremented, nowMaxed := incrementPartition(w[last], regions)
	maxed = mergePartitions(maxed, nowMaxed)
	if len(incremented) > 0 {
		res = append(res, incremented)
	}

	if last > 0 {
		// The old first partition ages: an integer partition moves into
		// the open interval above it. Fractional partitions keep their
		// region and only their rank shifts.
		first := w[0]
		if first[0].Region%2 == 0 {
			aged, agedMaxed := incrementPartition(first, regions)
			maxed = mergePartitions(maxed, agedMaxed)
			if len(aged) > 0 {
				res = append(res, aged)
			}
		} else {
			res = append(res, first)
		}
		// Partitions strictly between the first and the incremented one
		// keep their order.
		res = append(res, w[1:last]...)
	}
	if len(maxed) > 0 {
		res = append(res, maxed)
	}
	return res
}

func allMaxed(p Partition, maxIndex region.Index) bool {
	for _, s := range p {
		if s.Region != maxIndex {
			return false
		}
	}
	return true
}

func incrementPartition(p Partition, regions region.Set) (kept, maxed Partition) {
	for _, s := range p {
		s.Region = regions.Increment(s.Region)
		if s.Region == regions.MaxIndex() {
			maxed = maxed.insert(s)
		} else {
			kept = kept.insert(s)
		}
	}
	return kept, maxed
}

func mergePartitions(a, b Partition) Partition {
	for _, s := range b {
		a = a.insert(s)
	}
	return a
}

// NthTimeSuccessor applies TimeSuccessor n times.
func NthTimeSuccessor(w Word, n region.Index, k uint) Word {
	res := w
	for i := region.Index(0); i < n; i++ {
		res = TimeSuccessor(res, k)
	}
	return res
}

// TimedWord pairs a canonical word with the region increment that reaches
// it.
type TimedWord struct {
	// Increment is the number of atomic time steps from the original word.
	Increment region.Index

	// Word is the canonical word after the increment.
	Word Word
}

// TimeSuccessors enumerates all distinct time successors of a word,
// starting with the word itself at increment 0 and ending at the fixpoint
// where every clock is absorbed.
func TimeSuccessors(w Word, k uint) []TimedWord {
	res := []TimedWord{{Increment: 0, Word: w}}
	cur := TimeSuccessor(w, k)
	for inc := region.Index(1); !cur.Equal(res[len(res)-1].Word); inc++ {
		res = append(res, TimedWord{Increment: inc, Word: cur})
		cur = TimeSuccessor(res[len(res)-1].Word, k)
	}
	return res
}

// Config carries the successor-enumeration switches of a search.
type Config struct {
	// UseLocationConstraints feeds the automaton the symbols emitted by
	// the plant's target location instead of the action name.
	UseLocationConstraints bool

	// UseSetSemantics collapses duplicate symbols arising from automaton
	// states that agree on location and region but differ in fractional
	// rank.
	UseSetSemantics bool
}

// NextWords computes the action successors of a canonical word: the plant
// takes every enabled transition on the action while the automaton reads
// the corresponding input symbol; every combination of plant successor and
// automaton minimal model is re-canonicalized. The union of plant clocks
// reset by the contributing transitions is reported alongside.
func NextWords(w Word, adapter plant.Adapter, automaton *ata.Automaton,
	action string, k uint, cfg Config) ([]Word, []string, error) {

	plantCfg, ataCfg := w.Candidate(k)
	plantSuccessors, err := adapter.Successors(plantCfg, action)
	if err != nil {
		return nil, nil, fmt.Errorf("plant successors for %q: %w", action, err)
	}

	var res []Word
	resetUnion := map[string]bool{}
	for _, succ := range plantSuccessors {
		symbol := action
		if cfg.UseLocationConstraints {
			if symbols := adapter.SymbolsFor(succ.Configuration.Location); len(symbols) > 0 {
				symbol = symbols[0]
			}
		}
		for _, ataSucc := range automaton.SymbolStep(ataCfg, symbol) {
			word, err := NewWord(succ.Configuration, ataSucc, k)
			if err != nil {
				return nil, nil, err
			}
			if cfg.UseSetSemantics {
				word = collapseToSet(word)
			}
			res = append(res, word)
		}
		for _, name := range succ.ResetClocks {
			resetUnion[name] = true
		}
	}

	var resets []string
	for name := range resetUnion {
		resets = append(resets, name)
	}
	sort.Strings(resets)
	return res, resets, nil
}

// collapseToSet drops later occurrences of symbols that already appear in
// an earlier partition, implementing set semantics over the word's
// multiset of symbols.
func collapseToSet(w Word) Word {
	seen := map[string]bool{}
	var res Word
	for _, p := range w {
		var kept Partition
		for _, s := range p {
			key := fmt.Sprintf("%d/%s/%s/%v/%d", s.Kind, s.Location, s.Clock, formulaKey(s), s.Region)
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, s)
		}
		if len(kept) > 0 {
			res = append(res, kept)
		}
	}
	return res
}

func formulaKey(s Symbol) string {
	if s.Formula == nil {
		return ""
	}
	return s.Formula.Key()
}
