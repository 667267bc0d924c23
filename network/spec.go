package network

import (
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("network: invalid specification")

var validate = validator.New()

// Spec describes a network in YAML. Exactly one form is used: a cyclic
// interval list, paired ascending and descending lists, or explicit nodes
// and edges.
//
//	name: whole-tone
//	intervals: [M2, M2, M2, M2, M2, d3]
type Spec struct {
	Name       string    `yaml:"name"`
	Intervals  []string  `yaml:"intervals,omitempty"`
	Ascending  []string  `yaml:"ascending,omitempty" validate:"required_with=Descending"`
	Descending []string  `yaml:"descending,omitempty" validate:"required_with=Ascending"`
	Nodes      []NodeDef `yaml:"nodes,omitempty" validate:"required_with=Edges,dive"`
	Edges      []EdgeDef `yaml:"edges,omitempty" validate:"required_with=Nodes,dive"`
}

type NodeDef struct {
	ID   NodeID `yaml:"id"`
	Step int    `yaml:"step" validate:"min=1"`
}

type EdgeDef struct {
	Interval    string          `yaml:"interval" validate:"required"`
	Connections []ConnectionDef `yaml:"connections" validate:"required,min=1,dive"`
}

type ConnectionDef struct {
	From      NodeID `yaml:"from"`
	To        NodeID `yaml:"to"`
	Direction string `yaml:"direction" validate:"omitempty,oneof=ascending descending bi"`
}

func DecodeSpec(r io.Reader) (Spec, error) {
	var spec Spec
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
		return Spec{}, errors.Wrap(ErrInvalidSpec, err.Error())
	}
	return spec, nil
}

// LoadSpec reads a YAML specification and builds its network.
func LoadSpec(path string, opts ...Option) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open network spec %s", path)
	}
	defer f.Close()

	spec, err := DecodeSpec(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	n, err := FromSpec(spec, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return n, nil
}

func FromSpec(spec Spec, opts ...Option) (*Network, error) {
	if err := validate.Struct(spec); err != nil {
		return nil, errors.Wrap(ErrInvalidSpec, err.Error())
	}

	n := New(opts...)
	switch {
	case len(spec.Intervals) > 0:
		intervals, err := pitch.ParseIntervals(spec.Intervals)
		if err != nil {
			return nil, err
		}
		if err := n.FillBiDirectedEdges(intervals); err != nil {
			return nil, err
		}

	case len(spec.Ascending) > 0:
		asc, err := pitch.ParseIntervals(spec.Ascending)
		if err != nil {
			return nil, err
		}
		desc, err := pitch.ParseIntervals(spec.Descending)
		if err != nil {
			return nil, err
		}
		if err := n.FillDirectedEdges(asc, desc); err != nil {
			return nil, err
		}

	case len(spec.Nodes) > 0:
		nodes := make([]NodeSpec, 0, len(spec.Nodes))
		for _, nd := range spec.Nodes {
			nodes = append(nodes, NodeSpec{ID: nd.ID, Step: nd.Step})
		}
		edges := make([]EdgeSpec, 0, len(spec.Edges))
		for _, ed := range spec.Edges {
			iv, err := pitch.ParseInterval(ed.Interval)
			if err != nil {
				return nil, err
			}
			es := EdgeSpec{Interval: iv}
			for _, cd := range ed.Connections {
				dir, err := ParseDirection(cd.Direction)
				if err != nil {
					return nil, err
				}
				es.Connections = append(es.Connections, ConnectionSpec{From: cd.From, To: cd.To, Direction: dir})
			}
			edges = append(edges, es)
		}
		if err := n.FillArbitrary(nodes, edges); err != nil {
			return nil, err
		}

	default:
		return nil, errors.Wrap(ErrInvalidSpec, "no intervals, directed lists or nodes given")
	}
	return n, nil
}
