package network

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Direction int

const (
	Bi Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case Bi:
		return "bi"
	}
	return "Direction(" + strconv.Itoa(int(d)) + ")"
}

func (d Direction) valid() bool {
	return d == Bi || d == Ascending || d == Descending
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc", "up":
		return Ascending, nil
	case "descending", "desc", "down":
		return Descending, nil
	case "bi", "":
		return Bi, nil
	}
	return Bi, errors.Wrapf(ErrInvalidDirection, "%q", s)
}

// NodeID is a node's identity. Internal nodes count up from 0; the two
// termini use negative sentinels.
type NodeID int

const (
	TerminusLow  NodeID = -1
	TerminusHigh NodeID = -2
)

func (id NodeID) IsTerminus() bool {
	return id == TerminusLow || id == TerminusHigh
}

func (id NodeID) String() string {
	switch id {
	case TerminusLow:
		return "terminusLow"
	case TerminusHigh:
		return "terminusHigh"
	}
	return strconv.Itoa(int(id))
}

// ParseNodeID accepts "terminusLow", "terminusHigh", their short forms "low"
// and "high" (any case) or a non-negative integer.
func ParseNodeID(s string) (NodeID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terminuslow", "low":
		return TerminusLow, nil
	case "terminushigh", "high":
		return TerminusHigh, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrUnknownNode, "bad node id %q", s)
	}
	return NodeID(n), nil
}

func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *NodeID) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Node is an abstract position in a network. Step is its 1-based ordinal
// used for scale degree arithmetic. Weight is carried but unused.
type Node struct {
	ID     NodeID
	Step   int
	Weight float64
}

func NewNode(id NodeID, step int) *Node {
	return &Node{ID: id, Step: step, Weight: 1.0}
}
