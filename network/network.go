package network

import (
	"strconv"
	"strings"

	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

var (
	ErrMismatchedEdgeLists = errors.New("network: ascending and descending interval lists differ in length")
	ErrUnknownNode         = errors.New("network: unknown node")
	ErrInvalidDirection    = errors.New("network: invalid direction")
	ErrUnreachableNode     = errors.New("network: node not reachable from either terminus")
	ErrDuplicateNode       = errors.New("network: duplicate node id")
	ErrMissingTerminus     = errors.New("network: missing terminus")
)

// Network is a graph of abstract scale or harmony positions joined by
// intervals. It must be fully built before it is traversed; traversal does
// not mutate it.
type Network struct {
	nodes     map[NodeID]*Node
	nodeOrder []NodeID
	edges     []*Edge

	maxAccidental int
	equateTermini bool
}

type Option func(*Network)

// WithMaxAccidental bounds the sharps or flats a realized pitch may carry
// before it is respelled. A negative value disables respelling.
func WithMaxAccidental(n int) Option {
	return func(net *Network) {
		net.maxAccidental = n
	}
}

// WithEquateTermini controls whether looking up the low terminus step also
// yields the high terminus.
func WithEquateTermini(equate bool) Option {
	return func(net *Network) {
		net.equateTermini = equate
	}
}

func New(opts ...Option) *Network {
	n := &Network{
		nodes:         make(map[NodeID]*Node),
		maxAccidental: constants.DefaultMaxAccidental,
		equateTermini: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// FromIntervals builds a cyclic network from an ordered interval list.
func FromIntervals(intervals []pitch.Interval, opts ...Option) (*Network, error) {
	n := New(opts...)
	if err := n.FillBiDirectedEdges(intervals); err != nil {
		return nil, err
	}
	return n, nil
}

// FromIntervalNames is FromIntervals over short-form names like "M2".
func FromIntervalNames(names []string, opts ...Option) (*Network, error) {
	intervals, err := pitch.ParseIntervals(names)
	if err != nil {
		return nil, err
	}
	return FromIntervals(intervals, opts...)
}

func (n *Network) Clear() {
	n.nodes = make(map[NodeID]*Node)
	n.nodeOrder = nil
	n.edges = nil
}

func (n *Network) addNode(id NodeID, step int) (*Node, error) {
	if _, ok := n.nodes[id]; ok {
		return nil, errors.Wrapf(ErrDuplicateNode, "%v", id)
	}
	node := NewNode(id, step)
	n.nodes[id] = node
	n.nodeOrder = append(n.nodeOrder, id)
	return node, nil
}

func (n *Network) addEdge(iv pitch.Interval) *Edge {
	e := NewEdge(len(n.edges), iv)
	n.edges = append(n.edges, e)
	return e
}

// FillBiDirectedEdges replaces the network with a single ladder of N+1 nodes
// joined by N bidirectional edges. Steps run 1..N+1.
func (n *Network) FillBiDirectedEdges(intervals []pitch.Interval) error {
	n.Clear()
	if len(intervals) == 0 {
		return errors.Wrap(ErrMissingTerminus, "no intervals given")
	}

	stepCounter := 1
	prev, _ := n.addNode(TerminusLow, stepCounter)
	nodeID := NodeID(0)
	for i, iv := range intervals {
		stepCounter++
		var next *Node
		if i == len(intervals)-1 {
			next, _ = n.addNode(TerminusHigh, stepCounter)
		} else {
			next, _ = n.addNode(nodeID, stepCounter)
			nodeID++
		}
		n.addEdge(iv).AddBiDirectedConnections(prev, next)
		prev = next
	}
	return nil
}

// FillDirectedEdges builds separate ascending and descending chains that
// share only the termini. Both lists run from low to high.
func (n *Network) FillDirectedEdges(ascending, descending []pitch.Interval) error {
	n.Clear()
	if len(ascending) != len(descending) {
		return errors.Wrapf(ErrMismatchedEdgeLists, "%d ascending, %d descending", len(ascending), len(descending))
	}
	if len(ascending) == 0 {
		return errors.Wrap(ErrMissingTerminus, "no intervals given")
	}

	low, _ := n.addNode(TerminusLow, 1)
	high, _ := n.addNode(TerminusHigh, len(ascending)+1)
	nodeID := NodeID(0)

	chain := func(intervals []pitch.Interval, dir Direction) error {
		prev := low
		for i, iv := range intervals {
			next := high
			if i < len(intervals)-1 {
				next, _ = n.addNode(nodeID, i+2)
				nodeID++
			}
			e := n.addEdge(iv)
			var err error
			if dir == Ascending {
				err = e.AddDirectedConnection(prev, next, Ascending)
			} else {
				err = e.AddDirectedConnection(next, prev, Descending)
			}
			if err != nil {
				return err
			}
			prev = next
		}
		return nil
	}

	if err := chain(ascending, Ascending); err != nil {
		n.Clear()
		return err
	}
	if err := chain(descending, Descending); err != nil {
		n.Clear()
		return err
	}
	return nil
}

type NodeSpec struct {
	ID   NodeID
	Step int
}

type ConnectionSpec struct {
	From      NodeID
	To        NodeID
	Direction Direction
}

type EdgeSpec struct {
	Interval    pitch.Interval
	Connections []ConnectionSpec
}

// FillArbitrary builds an irregular lattice. Every node must be reachable
// from one of the termini along stored connections. On any error the
// network is left empty.
func (n *Network) FillArbitrary(nodes []NodeSpec, edges []EdgeSpec) error {
	n.Clear()
	if err := n.fillArbitrary(nodes, edges); err != nil {
		n.Clear()
		return err
	}
	return nil
}

func (n *Network) fillArbitrary(nodes []NodeSpec, edges []EdgeSpec) error {
	for _, ns := range nodes {
		if _, err := n.addNode(ns.ID, ns.Step); err != nil {
			return err
		}
	}
	for _, id := range []NodeID{TerminusLow, TerminusHigh} {
		if _, ok := n.nodes[id]; !ok {
			return errors.Wrapf(ErrMissingTerminus, "%v", id)
		}
	}

	for i, es := range edges {
		e := n.addEdge(es.Interval)
		for _, cs := range es.Connections {
			from, ok := n.nodes[cs.From]
			if !ok {
				return errors.Wrapf(ErrUnknownNode, "edge %d references %v", i, cs.From)
			}
			to, ok := n.nodes[cs.To]
			if !ok {
				return errors.Wrapf(ErrUnknownNode, "edge %d references %v", i, cs.To)
			}
			switch cs.Direction {
			case Bi:
				e.AddBiDirectedConnections(from, to)
			case Ascending, Descending:
				if err := e.AddDirectedConnection(from, to, cs.Direction); err != nil {
					return err
				}
			default:
				return errors.Wrapf(ErrInvalidDirection, "edge %d: %v", i, cs.Direction)
			}
		}
	}

	return n.checkReachable()
}

func (n *Network) checkReachable() error {
	adj := make(map[NodeID][]NodeID)
	for _, e := range n.edges {
		for _, c := range e.connections {
			adj[c.From] = append(adj[c.From], c.To)
		}
	}

	seen := map[NodeID]bool{TerminusLow: true, TerminusHigh: true}
	queue := []NodeID{TerminusLow, TerminusHigh}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, id := range n.nodeOrder {
		if !seen[id] {
			return errors.Wrapf(ErrUnreachableNode, "%v", id)
		}
	}
	return nil
}

// Node returns the node with the given id, or nil.
func (n *Network) Node(id NodeID) *Node {
	return n.nodes[id]
}

// Nodes returns the nodes in insertion order.
func (n *Network) Nodes() []*Node {
	res := make([]*Node, 0, len(n.nodeOrder))
	for _, id := range n.nodeOrder {
		res = append(res, n.nodes[id])
	}
	return res
}

func (n *Network) Edges() []*Edge {
	return append([]*Edge(nil), n.edges...)
}

func (n *Network) StepMin() int {
	first := true
	var min int
	for _, node := range n.nodes {
		if first || node.Step < min {
			min = node.Step
			first = false
		}
	}
	return min
}

func (n *Network) StepMax() int {
	first := true
	var max int
	for _, node := range n.nodes {
		if first || node.Step > max {
			max = node.Step
			first = false
		}
	}
	return max
}

// StepMaxUnique is the highest step not counting the high terminus.
func (n *Network) StepMaxUnique() int {
	first := true
	var max int
	for id, node := range n.nodes {
		if id == TerminusHigh {
			continue
		}
		if first || node.Step > max {
			max = node.Step
			first = false
		}
	}
	return max
}

// StepModulus folds any integer onto [StepMin, StepMax). The high terminus
// step folds onto the low terminus step.
func (n *Network) StepModulus(step int) int {
	min, max := n.StepMin(), n.StepMax()
	span := max - min
	if span <= 0 {
		return min
	}
	return util.Mod(step-min, span) + min
}

// NodesByName resolves a node name. An int is a step, folded through
// StepModulus; a NodeID or *Node selects that node; a string is a terminus
// name ("low", "high", "terminusLow", "terminusHigh", any case) or a step
// number. Unknown names yield nil.
func (n *Network) NodesByName(name any) []*Node {
	switch v := name.(type) {
	case int:
		return n.nodesByStep(v)
	case NodeID:
		if node, ok := n.nodes[v]; ok {
			return []*Node{node}
		}
	case *Node:
		if v != nil && n.nodes[v.ID] == v {
			return []*Node{v}
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "low", "terminuslow":
			return n.NodesByName(TerminusLow)
		case "high", "terminushigh":
			return n.NodesByName(TerminusHigh)
		}
		if step, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n.nodesByStep(step)
		}
	}
	return nil
}

func (n *Network) nodesByStep(step int) []*Node {
	if len(n.nodes) == 0 {
		return nil
	}
	step = n.StepModulus(step)
	var res []*Node
	for _, id := range n.nodeOrder {
		if n.nodes[id].Step == step {
			res = append(res, n.nodes[id])
		}
	}
	if low, ok := n.nodes[TerminusLow]; ok && n.equateTermini && step == low.Step {
		if high, ok := n.nodes[TerminusHigh]; ok && high.Step != step {
			res = append(res, high)
		}
	}
	return res
}
