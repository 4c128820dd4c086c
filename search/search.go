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
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/temposynth/engine/ata"
	tsclock "github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/mtl"
	"github.com/temposynth/engine/observe"
	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/region"
)

var (
	// ErrConfig indicates an invalid search configuration, such as
	// overlapping controller and environment action sets.
	ErrConfig = errors.New("invalid search configuration")

	// ErrModelTooLarge indicates that the symbolic state space exceeded
	// the configured node cap. The search result is unknown.
	ErrModelTooLarge = errors.New("symbolic state space exceeds node cap")
)

// Result is the outcome of a synthesis run.
type Result int

const (
	// ResultUnknown means the search terminated without deciding the game.
	ResultUnknown Result = iota
	// ResultRealizable means a controller exists; the root is TOP.
	ResultRealizable
	// ResultUnrealizable means the environment wins; the root is BOTTOM.
	ResultUnrealizable
	// ResultCanceled means the search was canceled before completion.
	ResultCanceled
)

// String renders the result.
func (r Result) String() string {
	switch r {
	case ResultRealizable:
		return "REALIZABLE"
	case ResultUnrealizable:
		return "UNREALIZABLE"
	case ResultCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// Options configure a TreeSearch beyond its plant and automaton.
type Options struct {
	// ControllerActions are the actions the controller decides.
	ControllerActions []string

	// EnvironmentActions are the actions of the environment. When empty,
	// the complement of the controller actions within the plant alphabet
	// is used.
	EnvironmentActions []string

	// K is the region bound. It must be at least the largest constant of
	// the plant guards and the specification intervals; use Bound to
	// compute it.
	K uint

	// Config holds the successor-enumeration switches.
	Config Config

	// MaxNodes caps the node store; 0 means unlimited. Exceeding the cap
	// ends the search with ErrModelTooLarge.
	MaxNodes int

	// Workers is the number of parallel expansion workers; values below 2
	// select the sequential search.
	Workers int

	// Heuristic orders the expansion frontier; nil selects the default
	// composite heuristic.
	Heuristic Heuristic

	// HeuristicWeights weigh the components of the default heuristic.
	HeuristicWeights []float64

	// Clock drives the timeout; nil selects the system clock.
	Clock tsclock.Clock

	// Timeout cancels the search after the given wall time; 0 disables
	// the deadline.
	Timeout time.Duration

	// Observability carries the logging, tracing, and metrics ports.
	Observability observe.Observability
}

// Bound returns the region bound K induced by a plant and a specification:
// the maximum of their largest constants.
func Bound(adapter plant.Adapter, spec *mtl.Formula) uint {
	k := adapter.LargestConstant()
	if c := spec.LargestConstant(); c > k {
		k = c
	}
	return k
}

// TreeSearch solves the synthesis game on the regionalized product of a
// plant and the adversary automaton.
type TreeSearch struct {
	id          string
	adapter     plant.Adapter
	automaton   *ata.Automaton
	controller  map[string]bool
	environment map[string]bool
	actions     []string
	k           uint
	cfg         Config
	maxNodes    int
	workers     int
	heuristic   Heuristic
	clk         tsclock.Clock
	timeout     time.Duration
	obs         observe.Observability

	store     *Store
	root      *Node
	queue     *nodeQueue
	cancelled atomic.Bool
	tooLarge  atomic.Bool
}

// NewTreeSearch builds the search for a plant and the automaton of the
// negated specification. The controller and environment actions must
// partition the plant alphabet.
func NewTreeSearch(adapter plant.Adapter, automaton *ata.Automaton, opts Options) (*TreeSearch, error) {
	controller := map[string]bool{}
	for _, a := range opts.ControllerActions {
		controller[a] = true
	}
	environment := map[string]bool{}
	for _, a := range opts.EnvironmentActions {
		if controller[a] {
			return nil, fmt.Errorf("%w: action %q is both controllable and environmental", ErrConfig, a)
		}
		environment[a] = true
	}
	alphabet := adapter.Alphabet()
	for _, a := range alphabet {
		if !controller[a] && !environment[a] {
			if len(opts.EnvironmentActions) > 0 {
				return nil, fmt.Errorf("%w: action %q assigned to neither player", ErrConfig, a)
			}
			environment[a] = true
		}
	}

	obs := opts.Observability
	if obs.Logger == nil {
		obs.Logger = observe.NoOpLogger{}
	}
	if obs.Tracer == nil {
		obs.Tracer = observe.NoOpTracer{}
	}
	if obs.Metrics == nil {
		obs.Metrics = observe.NoOpMetrics{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = tsclock.NewRealTime()
	}
	heuristic := opts.Heuristic
	if heuristic == nil {
		heuristic = DefaultHeuristic(environment, opts.HeuristicWeights)
	}

	ts := &TreeSearch{
		id:          uuid.NewString(),
		adapter:     adapter,
		automaton:   automaton,
		controller:  controller,
		environment: environment,
		actions:     alphabet,
		k:           opts.K,
		cfg:         opts.Config,
		maxNodes:    opts.MaxNodes,
		workers:     opts.Workers,
		heuristic:   heuristic,
		clk:         clk,
		timeout:     opts.Timeout,
		obs:         obs,
		store:       NewStore(),
		queue:       newNodeQueue(),
	}

	rootWord, err := NewWord(adapter.InitialConfiguration(), automaton.InitialConfiguration(), ts.k)
	if err != nil {
		return nil, err
	}
	ts.root, _ = ts.store.Intern([]Word{rootWord}, 0)
	return ts, nil
}

// ID returns the unique identifier of this run.
func (ts *TreeSearch) ID() string { return ts.id }

// Root returns the root node of the search graph.
func (ts *TreeSearch) Root() *Node { return ts.root }

// Store returns the node store.
func (ts *TreeSearch) Store() *Store { return ts.store }

// K returns the region bound of the search.
func (ts *TreeSearch) K() uint { return ts.k }

// IsControllerAction reports whether the action belongs to the controller.
func (ts *TreeSearch) IsControllerAction(action string) bool {
	return ts.controller[action]
}

// Cancel aborts the search. Nodes already expanded stay consistent; the
// run result becomes ResultCanceled.
func (ts *TreeSearch) Cancel() {
	ts.cancelled.Store(true)
	ts.queue.close()
}

// Run expands the search graph until the game is decided, the node cap is
// hit, or the search is canceled.
func (ts *TreeSearch) Run(ctx context.Context) (Result, error) {
	ts.obs.Logger.Info("search started", map[string]interface{}{
		"run_id": ts.id, "k": int(ts.k), "workers": ts.workers,
	})
	span := ts.obs.Tracer.StartSpan("search.run")
	span.SetAttribute("run_id", ts.id)
	defer span.End()

	done := make(chan struct{})
	defer close(done)
	go ts.watchDeadline(ctx, done)

	ts.queue.push(ts.root, ts.heuristic.Rank(ts.root))

	workers := ts.workers
	if workers < 2 {
		workers = 1
	}
	g := &errgroup.Group{}
	for i := 0; i < workers; i++ {
		g.Go(ts.work)
	}
	err := g.Wait()

	switch {
	case err != nil:
		span.RecordError(err)
		ts.obs.Logger.Error("search failed", map[string]interface{}{"run_id": ts.id, "error": err})
		return ResultUnknown, err
	case ts.cancelled.Load():
		ts.obs.Logger.Warn("search canceled", map[string]interface{}{"run_id": ts.id})
		return ResultCanceled, nil
	case ts.tooLarge.Load():
		ts.obs.Logger.Warn("state space too large", map[string]interface{}{
			"run_id": ts.id, "nodes": ts.store.Len(),
		})
		return ResultUnknown, ErrModelTooLarge
	}

	// The frontier is exhausted. Unlabeled nodes sit on cycles that never
	// reach a bad configuration, so the environment cannot win them.
	for _, n := range ts.store.Nodes() {
		n.setLabel(LabelTop)
	}

	result := ResultUnknown
	switch ts.root.Label() {
	case LabelTop:
		result = ResultRealizable
	case LabelBottom:
		result = ResultUnrealizable
	}
	ts.obs.Logger.Info("search finished", map[string]interface{}{
		"run_id": ts.id, "result": result.String(), "nodes": ts.store.Len(),
	})
	ts.obs.Metrics.Set("search_nodes_total", float64(ts.store.Len()))
	return result, nil
}

// watchDeadline cancels the search when the context is done or the timeout
// elapses.
func (ts *TreeSearch) watchDeadline(ctx context.Context, done <-chan struct{}) {
	var timeout <-chan time.Time
	if ts.timeout > 0 {
		timeout = ts.clk.After(ts.timeout)
	}
	select {
	case <-ctx.Done():
		ts.Cancel()
	case <-timeout:
		ts.Cancel()
	case <-done:
	}
}

func (ts *TreeSearch) work() error {
	for {
		node := ts.queue.pop()
		if node == nil {
			return nil
		}
		err := ts.expand(node)
		ts.queue.done()
		if err != nil {
			ts.Cancel()
			return err
		}
	}
}

// expand computes every (action, region increment) successor bucket of a
// node, interns the children, and triggers incremental labelling.
func (ts *TreeSearch) expand(node *Node) error {
	if node.Label() != LabelUnlabeled {
		return nil
	}
	ts.obs.Metrics.Inc("search_nodes_expanded")

	if ts.isBad(node) {
		node.mu.Lock()
		node.bad = true
		node.mu.Unlock()
		if node.setLabel(LabelBottom) {
			ts.obs.Logger.Debug("bad node", map[string]interface{}{"node": node.Key()})
			ts.propagateFrom(node)
		}
		return nil
	}

	type bucketKey struct {
		action    string
		increment region.Index
	}
	buckets := map[bucketKey]*WordSet{}
	resets := map[bucketKey]map[string]bool{}
	for _, word := range node.Words() {
		for _, tw := range TimeSuccessors(word, ts.k) {
			for _, action := range ts.actions {
				words, resetClocks, err := NextWords(tw.Word, ts.adapter, ts.automaton, action, ts.k, ts.cfg)
				if err != nil {
					return err
				}
				if len(words) == 0 {
					continue
				}
				key := bucketKey{action: action, increment: tw.Increment}
				set, ok := buckets[key]
				if !ok {
					set = &WordSet{}
					buckets[key] = set
					resets[key] = map[string]bool{}
				}
				for _, w := range words {
					set.Insert(w)
				}
				for _, r := range resetClocks {
					resets[key][r] = true
				}
			}
		}
	}

	node.mu.Lock()
	node.expanded = true
	node.mu.Unlock()

	if len(buckets) == 0 {
		// No successor at all: the play cannot be continued, so no bad
		// configuration is ever reached.
		if node.setLabel(LabelTop) {
			ts.propagateFrom(node)
		}
		return nil
	}

	keys := make([]bucketKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].increment != keys[j].increment {
			return keys[i].increment < keys[j].increment
		}
		return keys[i].action < keys[j].action
	})

	for _, key := range keys {
		var resetList []string
		for r := range resets[key] {
			resetList = append(resetList, r)
		}
		sort.Strings(resetList)

		child, created := ts.store.Intern(buckets[key].Words(), node.Depth()+1)
		node.addEdge(Edge{Action: key.action, Increment: key.increment, Resets: resetList, Target: child})
		child.addParent(node, IncomingEdge{Action: key.action, Increment: key.increment})
		if created {
			if ts.maxNodes > 0 && ts.store.Len() > ts.maxNodes {
				ts.tooLarge.Store(true)
				ts.queue.close()
				return nil
			}
			ts.queue.push(child, ts.heuristic.Rank(child))
		}
	}

	// The children may already be labelled; re-evaluate bottom-up.
	ts.propagate(node)
	return nil
}

// isBad reports whether any word of the node represents a product state
// accepted by both the plant and the adversary automaton.
func (ts *TreeSearch) isBad(node *Node) bool {
	for _, w := range node.Words() {
		plantCfg, ataCfg := w.Candidate(ts.k)
		if ts.adapter.IsAccepting(plantCfg) && ts.automaton.IsAcceptingConfiguration(ataCfg) {
			return true
		}
	}
	return false
}

// propagateFrom re-evaluates the parents of a freshly labelled node and
// propagates label changes upwards using a dirty set.
func (ts *TreeSearch) propagateFrom(node *Node) {
	dirty := node.Parents()
	seen := map[*Node]bool{}
	for len(dirty) > 0 {
		n := dirty[len(dirty)-1]
		dirty = dirty[:len(dirty)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		if ts.evaluate(n) {
			for _, p := range n.Parents() {
				delete(seen, p)
				dirty = append(dirty, p)
			}
		}
	}
}

// propagate evaluates the node itself, then its ancestors.
func (ts *TreeSearch) propagate(node *Node) {
	if ts.evaluate(node) {
		ts.propagateFrom(node)
	}
}

// evaluate applies the labelling rule to a single expanded node. Edges
// carry region increments, and time decides races between the players: the
// node is TOP when every environment edge already wins, or when the
// controller has a winning action strictly earlier than any environment
// edge that is not yet known to win. The node is BOTTOM when the
// environment has a losing edge no later than every controller edge that
// could still win; on equal increments the environment moves first. It
// reports whether the node's label changed.
func (ts *TreeSearch) evaluate(n *Node) bool {
	if n.Label() != LabelUnlabeled {
		return false
	}
	n.mu.Lock()
	expanded := n.expanded
	edges := n.children
	n.mu.Unlock()
	if !expanded || len(edges) == 0 {
		return false
	}

	const inf = ^region.Index(0)
	firstGoodController := inf
	firstLiveController := inf // controller edges that might still win
	firstNonGoodEnvironment := inf
	firstBadEnvironment := inf
	for _, e := range edges {
		label := e.Target.Label()
		if ts.controller[e.Action] {
			if label == LabelTop && e.Increment < firstGoodController {
				firstGoodController = e.Increment
			}
			if label != LabelBottom && e.Increment < firstLiveController {
				firstLiveController = e.Increment
			}
		} else {
			if label != LabelTop && e.Increment < firstNonGoodEnvironment {
				firstNonGoodEnvironment = e.Increment
			}
			if label == LabelBottom && e.Increment < firstBadEnvironment {
				firstBadEnvironment = e.Increment
			}
		}
	}

	switch {
	case firstNonGoodEnvironment == inf || firstGoodController < firstNonGoodEnvironment:
		if n.setLabel(LabelTop) {
			ts.obs.Metrics.Inc("search_nodes_top")
			return true
		}
	case firstBadEnvironment != inf && firstBadEnvironment <= firstLiveController:
		if n.setLabel(LabelBottom) {
			ts.obs.Metrics.Inc("search_nodes_bottom")
			return true
		}
	}
	return false
}

// nodeQueue is the shared expansion frontier: a priority queue keyed by
// the heuristic, with in-flight tracking so workers know when the search
// is exhausted.
type nodeQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    pqHeap
	inflight int
	closed   bool
	seq      int64
}

func newNodeQueue() *nodeQueue {
	q := &nodeQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *nodeQueue) push(n *Node, rank float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.seq++
	heap.Push(&q.items, &pqItem{node: n, rank: rank, seq: q.seq})
	q.cond.Broadcast()
}

// pop returns the next node to expand, blocking while the queue is empty
// but work is still in flight. It returns nil when the search is finished
// or canceled.
func (q *nodeQueue) pop() *Node {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closed {
			return nil
		}
		if len(q.items) > 0 {
			item := heap.Pop(&q.items).(*pqItem)
			q.inflight++
			return item.node
		}
		if q.inflight == 0 {
			q.closed = true
			q.cond.Broadcast()
			return nil
		}
		q.cond.Wait()
	}
}

func (q *nodeQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight--
	q.cond.Broadcast()
}

func (q *nodeQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

type pqItem struct {
	node *Node
	rank float64
	seq  int64
}

type pqHeap []*pqItem

func (h pqHeap) Len() int { return len(h) }

func (h pqHeap) Less(i, j int) bool {
	if h[i].rank != h[j].rank {
		return h[i].rank > h[j].rank
	}
	return h[i].seq < h[j].seq
}

func (h pqHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pqHeap) Push(x interface{}) { *h = append(*h, x.(*pqItem)) }

func (h *pqHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
