package network

import (
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

// Alteration chromatically shifts the pitch landed on at a step when
// travelling in Direction. Bi matches either direction of travel.
type Alteration struct {
	Direction Direction
	Interval  pitch.Interval
}

// AlteredNodes maps node steps to alterations. A nil map alters nothing.
type AlteredNodes map[int]Alteration

type realizeConfig struct {
	min     *pitch.Pitch
	max     *pitch.Pitch
	dir     Direction
	altered AlteredNodes
}

func (c realizeConfig) inRange(p pitch.Pitch) bool {
	if c.min != nil && p.PS() < c.min.PS() {
		return false
	}
	if c.max != nil && p.PS() > c.max.PS() {
		return false
	}
	return true
}

type RealizeOption func(*realizeConfig)

// Min sets an inclusive lower bound. With a bound the walk wraps past the
// low terminus instead of stopping there.
func Min(p pitch.Pitch) RealizeOption {
	return func(c *realizeConfig) {
		c.min = &p
	}
}

// Max sets an inclusive upper bound. With a bound the walk wraps past the
// high terminus instead of stopping there.
func Max(p pitch.Pitch) RealizeOption {
	return func(c *realizeConfig) {
		c.max = &p
	}
}

func Range(min, max pitch.Pitch) RealizeOption {
	return func(c *realizeConfig) {
		c.min = &min
		c.max = &max
	}
}

// InDirection selects which connections are walked. Bi (the default) walks
// descending connections below the reference and ascending ones above it.
// Ascending or Descending walks only that direction's connections, backward
// where needed to reach the other side of the reference.
func InDirection(d Direction) RealizeOption {
	return func(c *realizeConfig) {
		c.dir = d
	}
}

func WithAlteredNodes(altered AlteredNodes) RealizeOption {
	return func(c *realizeConfig) {
		c.altered = altered
	}
}

func newRealizeConfig(opts []RealizeOption) realizeConfig {
	c := realizeConfig{dir: Bi}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// walk describes one half of a realization: which connections to follow
// and whether to follow them from source to destination.
type walk struct {
	conns   Direction
	forward bool
	alter   Direction
}

func (w walk) up() bool {
	return (w.conns == Ascending) == w.forward
}

func (c realizeConfig) walks() (down walk, up walk) {
	switch c.dir {
	case Ascending:
		return walk{Ascending, false, Ascending}, walk{Ascending, true, Ascending}
	case Descending:
		return walk{Descending, true, Descending}, walk{Descending, false, Descending}
	}
	return walk{Descending, true, Descending}, walk{Ascending, true, Ascending}
}

// move takes the first edge leaving node along w. Travelling down from the
// low terminus continues from the high terminus and vice versa.
func (n *Network) move(node *Node, w walk) (*Edge, *Node) {
	id := node.ID
	if w.up() && id == TerminusHigh {
		id = TerminusLow
	} else if !w.up() && id == TerminusLow {
		id = TerminusHigh
	}
	for _, e := range n.edges {
		pairs, err := e.ConnectionsFor(w.conns)
		if err != nil {
			continue
		}
		for _, c := range pairs {
			if w.forward && c.From == id {
				return e, n.nodes[c.To]
			}
			if !w.forward && c.To == id {
				return e, n.nodes[c.From]
			}
		}
	}
	return nil, nil
}

// pickStart prefers the first candidate that can move along w. Directed
// networks have separate nodes sharing a step, one per chain.
func (n *Network) pickStart(candidates []*Node, w walk) *Node {
	for _, c := range candidates {
		if e, _ := n.move(c, w); e != nil {
			return c
		}
	}
	return candidates[0]
}

type visit struct {
	id NodeID
	ps int
}

func (n *Network) realizeUp(ref pitch.Pitch, start *Node, c realizeConfig, w walk) ([]pitch.Pitch, []NodeID) {
	var pitches []pitch.Pitch
	var ids []NodeID
	seen := make(map[visit]bool)

	p, node := ref, start
	for {
		if c.inRange(p) {
			pitches = append(pitches, n.alter(c.altered, node, p, w.alter))
			ids = append(ids, node.ID)
		}
		if c.max != nil && p.PS() >= c.max.PS() {
			break
		}
		if node.ID == TerminusHigh && c.max == nil {
			break
		}
		// NOTE: a cycle that never gains pitch would otherwise spin forever
		v := visit{node.ID, p.PS()}
		if seen[v] {
			break
		}
		seen[v] = true

		e, next := n.move(node, w)
		if e == nil {
			break
		}
		p = e.Interval.TransposePitch(p, n.maxAccidental)
		node = next
	}
	return pitches, ids
}

func (n *Network) realizeDown(ref pitch.Pitch, start *Node, c realizeConfig, w walk, includeRef bool) ([]pitch.Pitch, []NodeID) {
	var pitches []pitch.Pitch
	var ids []NodeID
	seen := make(map[visit]bool)

	p, node := ref, start
	first := true
	for {
		if (includeRef || !first) && c.inRange(p) {
			pitches = append(pitches, n.alter(c.altered, node, p, w.alter))
			ids = append(ids, node.ID)
		}
		first = false
		if c.min != nil && p.PS() <= c.min.PS() {
			break
		}
		if node.ID == TerminusLow && c.min == nil {
			break
		}
		v := visit{node.ID, p.PS()}
		if seen[v] {
			break
		}
		seen[v] = true

		e, next := n.move(node, w)
		if e == nil {
			break
		}
		p = e.Interval.Reverse().TransposePitch(p, n.maxAccidental)
		node = next
	}
	util.Reverse(pitches)
	util.Reverse(ids)
	return pitches, ids
}

// alter applies the alteration for the landed node's step, trying the raw
// step before its modulus so the high terminus follows the low one.
func (n *Network) alter(altered AlteredNodes, node *Node, p pitch.Pitch, dir Direction) pitch.Pitch {
	if len(altered) == 0 {
		return p
	}
	a, ok := altered[node.Step]
	if !ok {
		a, ok = altered[n.StepModulus(node.Step)]
	}
	if !ok || (a.Direction != Bi && a.Direction != dir) {
		return p
	}
	return a.Interval.TransposePitch(p, n.maxAccidental)
}

// Realize anchors the network by assigning ref to the named node and walks
// outward, returning pitches in ascending order with the id of the node
// each was realized from. Without bounds it covers one pass between the
// termini. Dead ends end the walk early; only an unknown node is an error.
func (n *Network) Realize(ref pitch.Pitch, name any, opts ...RealizeOption) ([]pitch.Pitch, []NodeID, error) {
	c := newRealizeConfig(opts)
	candidates := n.NodesByName(name)
	if len(candidates) == 0 {
		return nil, nil, errors.Wrapf(ErrUnknownNode, "%v", name)
	}

	down, up := c.walks()
	pre, preIDs := n.realizeDown(ref, n.pickStart(candidates, down), c, down, false)
	post, postIDs := n.realizeUp(ref, n.pickStart(candidates, up), c, up)
	return append(pre, post...), append(preIDs, postIDs...), nil
}

// RealizeAscending walks only upward from ref.
func (n *Network) RealizeAscending(ref pitch.Pitch, name any, opts ...RealizeOption) ([]pitch.Pitch, []NodeID, error) {
	c := newRealizeConfig(opts)
	candidates := n.NodesByName(name)
	if len(candidates) == 0 {
		return nil, nil, errors.Wrapf(ErrUnknownNode, "%v", name)
	}
	_, up := c.walks()
	pitches, ids := n.realizeUp(ref, n.pickStart(candidates, up), c, up)
	return pitches, ids, nil
}

// RealizeDescending walks only downward from ref. The reference itself is
// included.
func (n *Network) RealizeDescending(ref pitch.Pitch, name any, opts ...RealizeOption) ([]pitch.Pitch, []NodeID, error) {
	c := newRealizeConfig(opts)
	candidates := n.NodesByName(name)
	if len(candidates) == 0 {
		return nil, nil, errors.Wrapf(ErrUnknownNode, "%v", name)
	}
	down, _ := c.walks()
	pitches, ids := n.realizeDown(ref, n.pickStart(candidates, down), c, down, true)
	return pitches, ids, nil
}

// RealizePitches is Realize without the node ids.
func (n *Network) RealizePitches(ref pitch.Pitch, name any, opts ...RealizeOption) ([]pitch.Pitch, error) {
	pitches, _, err := n.Realize(ref, name, opts...)
	return pitches, err
}

// RealizeTermini returns the pitches of the low and high termini of the
// cycle that contains ref. Bounds in opts are ignored.
func (n *Network) RealizeTermini(ref pitch.Pitch, name any, opts ...RealizeOption) (pitch.Pitch, pitch.Pitch, error) {
	pitches, ids, err := n.Realize(ref, name, unbounded(opts)...)
	if err != nil {
		return pitch.Pitch{}, pitch.Pitch{}, err
	}
	low, high := pitches[0], pitches[len(pitches)-1]
	for i, id := range ids {
		if id == TerminusLow {
			low = pitches[i]
			break
		}
	}
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == TerminusHigh {
			high = pitches[i]
			break
		}
	}
	return low, high, nil
}

// RealizeMinMax returns the lowest and highest pitches of one cycle around
// ref. Alterations can push them past the termini.
func (n *Network) RealizeMinMax(ref pitch.Pitch, name any, opts ...RealizeOption) (pitch.Pitch, pitch.Pitch, error) {
	pitches, _, err := n.Realize(ref, name, unbounded(opts)...)
	if err != nil {
		return pitch.Pitch{}, pitch.Pitch{}, err
	}
	min, max := pitches[0], pitches[0]
	for _, p := range pitches[1:] {
		if p.PS() < min.PS() {
			min = p
		}
		if p.PS() > max.PS() {
			max = p
		}
	}
	return min, max, nil
}

// PitchFromNodeStep realizes the network and returns the lowest pitch whose
// node sits at step, folding steps through StepModulus.
func (n *Network) PitchFromNodeStep(ref pitch.Pitch, name any, step int, opts ...RealizeOption) (pitch.Pitch, bool, error) {
	pitches, ids, err := n.Realize(ref, name, opts...)
	if err != nil {
		return pitch.Pitch{}, false, err
	}
	want := n.StepModulus(step)
	for i, id := range ids {
		if n.StepModulus(n.nodes[id].Step) == want {
			return pitches[i], true, nil
		}
	}
	return pitch.Pitch{}, false, nil
}

func unbounded(opts []RealizeOption) []RealizeOption {
	return append(append([]RealizeOption(nil), opts...), func(c *realizeConfig) {
		c.min = nil
		c.max = nil
	})
}
