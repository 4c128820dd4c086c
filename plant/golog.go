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

package plant

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Program is a Golog program term. Programs are immutable.
type Program struct {
	kind     programKind
	action   string
	operands []*Program
}

type programKind int

const (
	programNil programKind = iota
	programAction
	programSeq
	programChoice
	programStar
)

// Nil returns the empty program.
func Nil() *Program { return &Program{kind: programNil} }

// Action returns the program that executes a single primitive action.
func Action(name string) *Program { return &Program{kind: programAction, action: name} }

// Seq returns the sequential composition p; q.
func Seq(p, q *Program) *Program { return &Program{kind: programSeq, operands: []*Program{p, q}} }

// Choice returns the nondeterministic branch p | q.
func Choice(p, q *Program) *Program {
	return &Program{kind: programChoice, operands: []*Program{p, q}}
}

// Star returns the nondeterministic iteration p*.
func Star(p *Program) *Program { return &Program{kind: programStar, operands: []*Program{p}} }

// Final reports whether the program may terminate without executing another
// action.
func (p *Program) Final() bool {
	switch p.kind {
	case programNil, programStar:
		return true
	case programAction:
		return false
	case programSeq:
		return p.operands[0].Final() && p.operands[1].Final()
	case programChoice:
		return p.operands[0].Final() || p.operands[1].Final()
	default:
		return false
	}
}

// Step returns the remaining programs after executing action.
func (p *Program) Step(action string) []*Program {
	switch p.kind {
	case programNil:
		return nil
	case programAction:
		if p.action == action {
			return []*Program{Nil()}
		}
		return nil
	case programSeq:
		var res []*Program
		for _, rest := range p.operands[0].Step(action) {
			res = append(res, simplifySeq(rest, p.operands[1]))
		}
		if p.operands[0].Final() {
			res = append(res, p.operands[1].Step(action)...)
		}
		return res
	case programChoice:
		return append(p.operands[0].Step(action), p.operands[1].Step(action)...)
	case programStar:
		var res []*Program
		for _, rest := range p.operands[0].Step(action) {
			res = append(res, simplifySeq(rest, p))
		}
		return res
	default:
		return nil
	}
}

func simplifySeq(p, q *Program) *Program {
	if p.kind == programNil {
		return q
	}
	return Seq(p, q)
}

// Actions returns the primitive actions occurring in the program, sorted.
func (p *Program) Actions() []string {
	seen := map[string]bool{}
	p.walk(func(sub *Program) {
		if sub.kind == programAction {
			seen[sub.action] = true
		}
	})
	res := make([]string, 0, len(seen))
	for a := range seen {
		res = append(res, a)
	}
	sort.Strings(res)
	return res
}

func (p *Program) walk(visit func(*Program)) {
	visit(p)
	for _, o := range p.operands {
		o.walk(visit)
	}
}

// String renders the program canonically.
func (p *Program) String() string {
	switch p.kind {
	case programNil:
		return "nil"
	case programAction:
		return p.action
	case programSeq:
		return "(" + p.operands[0].String() + ";" + p.operands[1].String() + ")"
	case programChoice:
		return "(" + p.operands[0].String() + "|" + p.operands[1].String() + ")"
	case programStar:
		return p.operands[0].String() + "*"
	default:
		return "?"
	}
}

// ParseProgram reads a program term: identifiers are actions, ';' sequences,
// '|' branches, a postfix '*' iterates, and "nil" is the empty program.
func ParseProgram(input string) (*Program, error) {
	p := &programParser{input: input}
	prog, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("%w: trailing program input at offset %d", ErrAdapter, p.pos)
	}
	return prog, nil
}

type programParser struct {
	input string
	pos   int
}

func (p *programParser) parseSeq() (*Program, error) {
	left, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	for p.consume(";") {
		right, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		left = Seq(left, right)
		p.skipSpace()
	}
	return left, nil
}

func (p *programParser) parseChoice() (*Program, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	for p.consume("|") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Choice(left, right)
		p.skipSpace()
	}
	return left, nil
}

func (p *programParser) parseUnary() (*Program, error) {
	p.skipSpace()
	var prog *Program
	var err error
	if p.consume("(") {
		prog, err = p.parseSeq()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(")") {
			return nil, fmt.Errorf("%w: missing ')' in program at offset %d", ErrAdapter, p.pos)
		}
	} else {
		name := p.consumeIdentifier()
		if name == "" {
			return nil, fmt.Errorf("%w: expected action at offset %d", ErrAdapter, p.pos)
		}
		if name == "nil" {
			prog = Nil()
		} else {
			prog = Action(name)
		}
	}
	p.skipSpace()
	for p.consume("*") {
		prog = Star(prog)
		p.skipSpace()
	}
	return prog, nil
}

func (p *programParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *programParser) consume(tok string) bool {
	if strings.HasPrefix(p.input[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *programParser) consumeIdentifier() string {
	start := p.pos
	if p.pos < len(p.input) && unicode.IsLetter(rune(p.input[p.pos])) {
		p.pos++
		for p.pos < len(p.input) {
			r := rune(p.input[p.pos])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			p.pos++
		}
	}
	return p.input[start:p.pos]
}

// GologClock is the single clock of a Golog plant. It is reset on every
// action, so specifications over Golog plants constrain the time between
// consecutive actions.
const GologClock = "golog"

// gologLive guards the process-wide single-instance rule for Golog plants:
// the underlying program state is scoped, and only one program may be live
// at a time.
var (
	gologMu   sync.Mutex
	gologLive bool
)

// Golog is a plant backed by a Golog program. A Golog location is the pair
// ⟨remaining program, last action⟩; the plant has the single clock
// GologClock, reset on every action.
//
// At most one Golog plant may be live in a process. NewGolog returns
// ErrAdapterBusy while another instance exists; call Release to free the
// slot.
type Golog struct {
	program *Program

	mu        sync.Mutex
	locations map[string]gologState
	released  bool
}

type gologState struct {
	remaining  *Program
	lastAction string
}

// NewGolog creates the plant for a program term.
func NewGolog(program *Program) (*Golog, error) {
	gologMu.Lock()
	defer gologMu.Unlock()
	if gologLive {
		return nil, ErrAdapterBusy
	}
	gologLive = true
	g := &Golog{program: program, locations: map[string]gologState{}}
	g.locations[g.locationName(program, "")] = gologState{remaining: program}
	return g, nil
}

// Release frees the process-wide Golog slot. The plant must not be used
// afterwards.
func (g *Golog) Release() {
	gologMu.Lock()
	defer gologMu.Unlock()
	if !g.released {
		g.released = true
		gologLive = false
	}
}

func (g *Golog) locationName(remaining *Program, lastAction string) string {
	return "⟨" + remaining.String() + ", " + lastAction + "⟩"
}

// InitialConfiguration returns the full program with the clock at zero.
func (g *Golog) InitialConfiguration() Configuration {
	return Configuration{
		Location: g.locationName(g.program, ""),
		Clocks:   clockMapWith(GologClock, 0),
	}
}

// Clocks returns the single Golog clock.
func (g *Golog) Clocks() []string {
	return []string{GologClock}
}

// Alphabet returns the primitive actions of the program.
func (g *Golog) Alphabet() []string {
	return g.program.Actions()
}

// Successors executes action on the remaining program of cfg. Every
// remaining program after the step yields one successor; the Golog clock is
// reset by every action.
func (g *Golog) Successors(cfg Configuration, action string) ([]Successor, error) {
	g.mu.Lock()
	state, ok := g.locations[cfg.Location]
	g.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown golog location %q", ErrAdapter, cfg.Location)
	}

	var res []Successor
	for _, rest := range state.remaining.Step(action) {
		name := g.locationName(rest, action)
		g.mu.Lock()
		g.locations[name] = gologState{remaining: rest, lastAction: action}
		g.mu.Unlock()
		res = append(res, Successor{
			Configuration: Configuration{
				Location: name,
				Clocks:   clockMapWith(GologClock, 0),
			},
			ResetClocks: []string{GologClock},
		})
	}
	return res, nil
}

// IsAccepting reports whether the remaining program of the configuration may
// terminate. The test is on the remaining program, not on the full program.
func (g *Golog) IsAccepting(cfg Configuration) bool {
	g.mu.Lock()
	state, ok := g.locations[cfg.Location]
	g.mu.Unlock()
	return ok && state.remaining.Final()
}

// SymbolsFor returns the proposition emitted in a location: the last action
// executed to reach it.
func (g *Golog) SymbolsFor(location string) []string {
	g.mu.Lock()
	state, ok := g.locations[location]
	g.mu.Unlock()
	if !ok || state.lastAction == "" {
		return nil
	}
	return []string{state.lastAction}
}

// LargestConstant returns 0: Golog programs carry no clock guards.
func (g *Golog) LargestConstant() uint {
	return 0
}
