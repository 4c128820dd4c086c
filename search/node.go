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
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/temposynth/engine/region"
)

// Label is the game label of a node. Labels only ever move up the lattice
// UNLABELED ⊏ {TOP, BOTTOM, CANCELED}, so compare-and-swap on the label is
// sound under concurrent expansion.
type Label int32

const (
	// LabelUnlabeled marks a node whose winner is not yet determined.
	LabelUnlabeled Label = iota
	// LabelTop marks a controller-winning node.
	LabelTop
	// LabelBottom marks an environment-winning node.
	LabelBottom
	// LabelCanceled marks a node abandoned by a canceled search.
	LabelCanceled
)

// String returns the conventional rendering of a label.
func (l Label) String() string {
	switch l {
	case LabelTop:
		return "⊤"
	case LabelBottom:
		return "⊥"
	case LabelCanceled:
		return "CANCELED"
	default:
		return "?"
	}
}

// Edge is one outgoing transition of a node: executing an action after a
// number of atomic time steps leads to a successor node. The plant clocks
// reset on the way are recorded for controller extraction.
type Edge struct {
	// Action is the executed action.
	Action string

	// Increment is the region increment before the action.
	Increment region.Index

	// Resets are the plant clocks reset by the step.
	Resets []string

	// Target is the successor node.
	Target *Node
}

// Node is one vertex of the search graph: a set of canonical words
// capturing every product state the play may be in after the incoming
// action sequence. Nodes are hash-consed by their word set, so the graph is
// a DAG with back-references rather than a tree.
type Node struct {
	words []Word
	key   string

	label atomic.Int32

	mu       sync.Mutex
	expanded bool
	children []Edge
	parents  []*Node
	incoming []IncomingEdge
	depth    int
	bad      bool
}

// IncomingEdge records how a node can be reached from one of its parents.
type IncomingEdge struct {
	// Action is the action on the incoming edge.
	Action string

	// Increment is the region increment on the incoming edge.
	Increment region.Index
}

// Words returns the node's canonical words in canonical order.
func (n *Node) Words() []Word {
	return n.words
}

// Key returns the hash-consing key of the node.
func (n *Node) Key() string {
	return n.key
}

// Label returns the node's current label.
func (n *Node) Label() Label {
	return Label(n.label.Load())
}

// setLabel moves the label up the lattice. It reports whether the label
// changed; a node that is already labelled keeps its first label.
func (n *Node) setLabel(l Label) bool {
	return n.label.CompareAndSwap(int32(LabelUnlabeled), int32(l))
}

// Children returns the outgoing edges. The slice is shared; callers must
// not modify it.
func (n *Node) Children() []Edge {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.children
}

// Parents returns the nodes with an edge into n.
func (n *Node) Parents() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*Node(nil), n.parents...)
}

// Incoming returns the (action, increment) pairs of the incoming edges.
func (n *Node) Incoming() []IncomingEdge {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]IncomingEdge(nil), n.incoming...)
}

// Depth returns the node's first-seen distance from the root.
func (n *Node) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.depth
}

// IsBad reports whether the node contains a word whose product state is
// accepted by both the plant and the adversary automaton.
func (n *Node) IsBad() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bad
}

func (n *Node) addEdge(e Edge) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, e)
}

func (n *Node) addParent(parent *Node, in IncomingEdge) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, p := range n.parents {
		if p == parent {
			n.incoming = append(n.incoming, in)
			return
		}
	}
	n.parents = append(n.parents, parent)
	n.incoming = append(n.incoming, in)
}

// String renders the node's words and label.
func (n *Node) String() string {
	parts := make([]string, len(n.words))
	for i, w := range n.words {
		parts[i] = w.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }: " + n.Label().String()
}

// storeShards is the number of lock shards of the node store. Sharding by
// node hash keeps concurrent interning mostly contention-free.
const storeShards = 64

// Store is the hash-consed node table of a search. It owns every node of
// the graph.
type Store struct {
	shards [storeShards]storeShard
	count  atomic.Int64
}

type storeShard struct {
	mu    sync.Mutex
	nodes map[string]*Node
}

// NewStore creates an empty node store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i].nodes = map[string]*Node{}
	}
	return s
}

// Intern returns the unique node for a set of canonical words, creating it
// if necessary. The boolean result reports whether the node was created by
// this call.
func (s *Store) Intern(words []Word, depth int) (*Node, bool) {
	key := wordSetKey(words)
	shard := &s.shards[shardOf(key)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if n, ok := shard.nodes[key]; ok {
		return n, false
	}
	n := &Node{words: words, key: key, depth: depth}
	shard.nodes[key] = n
	s.count.Add(1)
	return n, true
}

// Len returns the number of interned nodes.
func (s *Store) Len() int {
	return int(s.count.Load())
}

// Nodes returns every interned node. The order is unspecified.
func (s *Store) Nodes() []*Node {
	var res []*Node
	for i := range s.shards {
		s.shards[i].mu.Lock()
		for _, n := range s.shards[i].nodes {
			res = append(res, n)
		}
		s.shards[i].mu.Unlock()
	}
	return res
}

func wordSetKey(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Key()
	}
	return strings.Join(parts, "\n")
}

func shardOf(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % storeShards)
}
