package scale

import (
	"strings"

	"github.com/jsphweid/harmonet/network"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

var ErrUnknownScale = errors.New("scale: unknown scale")

var naturalMinor = []string{"M2", "m2", "M2", "M2", "m2", "M2", "M2"}

var specs = map[string]network.Spec{
	"major":          {Intervals: []string{"M2", "M2", "m2", "M2", "M2", "M2", "m2"}},
	"minor":          {Intervals: naturalMinor},
	"harmonic-minor": {Intervals: []string{"M2", "m2", "M2", "M2", "m2", "A2", "m2"}},
	"melodic-minor": {
		Ascending:  []string{"M2", "m2", "M2", "M2", "M2", "M2", "m2"},
		Descending: naturalMinor,
	},
	"dorian":     {Intervals: []string{"M2", "m2", "M2", "M2", "M2", "m2", "M2"}},
	"phrygian":   {Intervals: []string{"m2", "M2", "M2", "M2", "m2", "M2", "M2"}},
	"lydian":     {Intervals: []string{"M2", "M2", "M2", "m2", "M2", "M2", "m2"}},
	"mixolydian": {Intervals: []string{"M2", "M2", "m2", "M2", "M2", "m2", "M2"}},
	"locrian":    {Intervals: []string{"m2", "M2", "M2", "m2", "M2", "M2", "M2"}},
	"whole-tone": {Intervals: []string{"M2", "M2", "M2", "M2", "M2", "d3"}},
	"octatonic":  {Intervals: []string{"M2", "m2", "M2", "m2", "M2", "A1", "M2", "m2"}},
	"chromatic":  {Intervals: []string{"A1", "m2", "A1", "m2", "m2", "A1", "m2", "A1", "m2", "A1", "m2", "m2"}},
}

var aliases = map[string]string{
	"ionian":  "major",
	"aeolian": "minor",
}

// Names lists the built-in abstract scales.
func Names() []string {
	return util.GetKeys(specs)
}

// Abstract is a scale pattern not bound to any tonic.
type Abstract struct {
	Name    string
	Network *network.Network
}

// Named builds one of the built-in scales. Names are case-insensitive.
func Named(name string, opts ...network.Option) (*Abstract, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	spec, ok := specs[key]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScale, "%q", name)
	}
	net, err := network.FromSpec(spec, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "scale %s", key)
	}
	return &Abstract{Name: key, Network: net}, nil
}

// FromNetwork wraps a custom network as an abstract scale.
func FromNetwork(name string, net *network.Network) *Abstract {
	return &Abstract{Name: name, Network: net}
}

// Degrees is the number of distinct steps in one cycle.
func (a *Abstract) Degrees() int {
	return a.Network.StepMaxUnique() - a.Network.StepMin() + 1
}

// Match is a concrete scale and how many searched pitches it holds.
type Match struct {
	Scale *Concrete
	Count int
}

// Find ranks tonics for the pitch collection by pitch class.
func (a *Abstract) Find(pitches []pitch.Pitch, n int) ([]Match, error) {
	candidates, err := a.Network.Find(pitches, n, pitch.ComparePitchClass, nil)
	if err != nil {
		return nil, err
	}
	res := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		res = append(res, Match{Scale: &Concrete{Tonic: c.Tonic, Abstract: a}, Count: c.Count})
	}
	return res, nil
}

// Concrete is an abstract scale anchored on a tonic, which sits on step 1.
type Concrete struct {
	Tonic    pitch.Pitch
	Abstract *Abstract
}

// New anchors the named scale on tonic.
func New(tonic pitch.Pitch, name string, opts ...network.Option) (*Concrete, error) {
	a, err := Named(name, opts...)
	if err != nil {
		return nil, err
	}
	return &Concrete{Tonic: tonic, Abstract: a}, nil
}

func (c *Concrete) Name() string {
	return c.Tonic.Name() + " " + c.Abstract.Name
}

// Pitches realizes the scale. Without bounds it covers one cycle from the
// tonic.
func (c *Concrete) Pitches(opts ...network.RealizeOption) ([]pitch.Pitch, error) {
	return c.Abstract.Network.RealizePitches(c.Tonic, network.TerminusLow, opts...)
}

// PitchNames are the distinct pitch names of one cycle, tonic first.
func (c *Concrete) PitchNames() ([]string, error) {
	pitches, ids, err := c.Abstract.Network.Realize(c.Tonic, network.TerminusLow)
	if err != nil {
		return nil, err
	}
	var res []string
	for i, p := range pitches {
		if ids[i] == network.TerminusHigh {
			continue
		}
		res = append(res, p.Name())
	}
	return res, nil
}

// PitchFromDegree returns the pitch on a 1-based degree, folded into the
// cycle that starts on the tonic.
func (c *Concrete) PitchFromDegree(degree int) (pitch.Pitch, bool) {
	p, ok, err := c.Abstract.Network.PitchFromNodeStep(c.Tonic, network.TerminusLow, degree)
	if err != nil {
		return pitch.Pitch{}, false
	}
	return p, ok
}

// DegreeFromPitch returns p's degree, matching by spelling in any octave.
func (c *Concrete) DegreeFromPitch(p pitch.Pitch) (int, bool) {
	step, ok, err := c.Abstract.Network.RelativeNodeStep(c.Tonic, network.TerminusLow, p, pitch.CompareName, nil)
	if err != nil || !ok {
		return 0, false
	}
	return c.Abstract.Network.StepModulus(step), true
}

func (c *Concrete) Contains(p pitch.Pitch) bool {
	_, ok := c.DegreeFromPitch(p)
	return ok
}
