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

package controller

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/temposynth/engine/plant"
)

// The UPPAAL document model: <nta> → <template> → <location>/<transition>
// with guard and assignment labels.

// NTA is an UPPAAL system document.
type NTA struct {
	XMLName     xml.Name   `xml:"nta"`
	Declaration string     `xml:"declaration"`
	Templates   []Template `xml:"template"`
	System      string     `xml:"system"`
}

// Template is one automaton template.
type Template struct {
	Name        string          `xml:"name"`
	Locations   []XMLLocation   `xml:"location"`
	Init        XMLRef          `xml:"init"`
	Transitions []XMLTransition `xml:"transition"`
}

// XMLLocation is a template location.
type XMLLocation struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name"`
}

// XMLRef references a location by id.
type XMLRef struct {
	Ref string `xml:"ref,attr"`
}

// XMLTransition is a guarded edge between two locations.
type XMLTransition struct {
	Source XMLRef     `xml:"source"`
	Target XMLRef     `xml:"target"`
	Labels []XMLLabel `xml:"label"`
}

// XMLLabel carries a guard, synchronisation, or assignment.
type XMLLabel struct {
	Kind string `xml:"kind,attr"`
	Text string `xml:",chardata"`
}

// FromAutomaton converts a timed automaton into an UPPAAL document with a
// single template. Clock resets are written as assignments "c := 0".
func FromAutomaton(name string, ta *plant.TimedAutomaton) NTA {
	locations := ta.Locations()
	sort.Strings(locations)
	ids := map[string]string{}
	xmlLocations := make([]XMLLocation, len(locations))
	for i, l := range locations {
		id := fmt.Sprintf("id%d", i)
		ids[l] = id
		xmlLocations[i] = XMLLocation{ID: id, Name: l}
	}

	var clocks []string
	clocks = append(clocks, ta.Clocks()...)
	declaration := ""
	if len(clocks) > 0 {
		declaration = "clock " + strings.Join(clocks, ", ") + ";"
	}

	var transitions []XMLTransition
	for _, t := range ta.Transitions() {
		labels := []XMLLabel{{Kind: "synchronisation", Text: t.Action + "!"}}
		if len(t.Guards) > 0 {
			parts := make([]string, len(t.Guards))
			for i, g := range t.Guards {
				parts[i] = g.String()
			}
			labels = append(labels, XMLLabel{Kind: "guard", Text: strings.Join(parts, " && ")})
		}
		if len(t.Resets) > 0 {
			parts := make([]string, len(t.Resets))
			for i, r := range t.Resets {
				parts[i] = r + " := 0"
			}
			labels = append(labels, XMLLabel{Kind: "assignment", Text: strings.Join(parts, ", ")})
		}
		transitions = append(transitions, XMLTransition{
			Source: XMLRef{Ref: ids[t.Source]},
			Target: XMLRef{Ref: ids[t.Target]},
			Labels: labels,
		})
	}

	return NTA{
		Declaration: declaration,
		Templates: []Template{{
			Name:        name,
			Locations:   xmlLocations,
			Init:        XMLRef{Ref: ids[ta.InitialLocation()]},
			Transitions: transitions,
		}},
		System: fmt.Sprintf("Process = %s();\nsystem Process;", name),
	}
}

// Marshal renders the document with the UPPAAL XML header.
func Marshal(nta NTA) ([]byte, error) {
	body, err := xml.MarshalIndent(nta, "", "  ")
	if err != nil {
		return nil, err
	}
	header := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"
	return append([]byte(header), append(body, '\n')...), nil
}

// Parse reads an UPPAAL document.
func Parse(data []byte) (NTA, error) {
	var nta NTA
	if err := xml.Unmarshal(data, &nta); err != nil {
		return NTA{}, fmt.Errorf("parse UPPAAL document: %w", err)
	}
	return nta, nil
}
