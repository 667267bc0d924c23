package network

import (
	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
)

// Connection is an ordered (from, to) pair of node ids.
type Connection struct {
	From NodeID
	To   NodeID
}

// Edge holds an interval and the node pairs it connects. The interval is
// always stored in its ascending sense; descending travel reverses it.
type Edge struct {
	ID        int
	Interval  pitch.Interval
	Direction Direction
	Weight    float64

	connections []Connection
}

func NewEdge(id int, iv pitch.Interval) *Edge {
	return &Edge{ID: id, Interval: iv, Direction: Bi, Weight: 1.0}
}

// AddBiDirectedConnections stores a->b as the ascending pair and b->a as the
// descending pair, replacing anything stored before.
func (e *Edge) AddBiDirectedConnections(a, b *Node) {
	e.connections = []Connection{{From: a.ID, To: b.ID}, {From: b.ID, To: a.ID}}
	e.Direction = Bi
}

// AddDirectedConnection appends one pair. The edge takes the given direction,
// overwriting any earlier one.
func (e *Edge) AddDirectedConnection(a, b *Node, dir Direction) error {
	if dir != Ascending && dir != Descending {
		return errors.Wrapf(ErrInvalidDirection, "edge %d: directed connection cannot be %v", e.ID, dir)
	}
	e.connections = append(e.connections, Connection{From: a.ID, To: b.ID})
	e.Direction = dir
	return nil
}

// Connections returns the pairs stored under the edge's own direction.
func (e *Edge) Connections() []Connection {
	return append([]Connection(nil), e.connections...)
}

// ConnectionsFor returns the pairs usable when travelling in dir. Asking a
// mono-directional edge for Bi is an error; asking it for the other mono
// direction returns nil, meaning no travel is possible.
func (e *Edge) ConnectionsFor(dir Direction) ([]Connection, error) {
	if dir == e.Direction {
		return e.Connections(), nil
	}
	if dir == Bi {
		return nil, errors.Wrapf(ErrInvalidDirection, "edge %d is %v only", e.ID, e.Direction)
	}
	if e.Direction == Bi && len(e.connections) == 2 {
		if dir == Ascending {
			return []Connection{e.connections[0]}, nil
		}
		return []Connection{e.connections[1]}, nil
	}
	return nil, nil
}
