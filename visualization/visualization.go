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

// Package visualization renders search graphs and controllers as Graphviz
// DOT documents for debugging and documentation.
package visualization

import (
	"fmt"
	"strings"

	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/search"
)

// SearchToDOT renders the search graph reachable from the root. Nodes are
// colored by their game label: green for controller wins, red for
// environment wins, gray for undecided.
func SearchToDOT(root *search.Node) string {
	var sb strings.Builder
	sb.WriteString("digraph search {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [fontname=\"Helvetica\" shape=box];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\"];\n\n")

	ids := map[string]int{}
	var visit func(n *search.Node)
	visit = func(n *search.Node) {
		if _, seen := ids[n.Key()]; seen {
			return
		}
		id := len(ids)
		ids[n.Key()] = id

		color := "gray"
		switch n.Label() {
		case search.LabelTop:
			color = "green"
		case search.LabelBottom:
			color = "red"
		}
		label := escapeLabel(wordsLabel(n))
		fmt.Fprintf(&sb, "  n%d [label=\"%s\" color=%s];\n", id, label, color)
		for _, e := range n.Children() {
			visit(e.Target)
			fmt.Fprintf(&sb, "  n%d -> n%d [label=\"(%s, %d)\"];\n",
				id, ids[e.Target.Key()], escapeLabel(e.Action), e.Increment)
		}
	}
	visit(root)

	sb.WriteString("}\n")
	return sb.String()
}

func wordsLabel(n *search.Node) string {
	words := n.Words()
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\\n")
}

// AutomatonToDOT renders a timed automaton: locations as circles (final
// locations doubled), transitions labelled with action, guards, and
// resets.
func AutomatonToDOT(name string, ta *plant.TimedAutomaton) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph \"%s\" {\n", escapeLabel(name))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [fontname=\"Helvetica\" shape=circle];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\"];\n\n")

	ids := map[string]int{}
	for i, l := range ta.Locations() {
		ids[l] = i
		shape := "circle"
		if ta.IsAccepting(plant.Configuration{Location: l}) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "  l%d [label=\"%s\" shape=%s];\n", i, escapeLabel(l), shape)
	}
	sb.WriteString("\n")

	for _, t := range ta.Transitions() {
		var annotations []string
		for _, g := range t.Guards {
			annotations = append(annotations, g.String())
		}
		for _, r := range t.Resets {
			annotations = append(annotations, r+" := 0")
		}
		label := t.Action
		if len(annotations) > 0 {
			label += "\\n" + strings.Join(annotations, ", ")
		}
		fmt.Fprintf(&sb, "  l%d -> l%d [label=\"%s\"];\n",
			ids[t.Source], ids[t.Target], escapeLabel(label))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// escapeLabel escapes quotes for DOT labels.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
