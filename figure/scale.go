package figure

import (
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/scale"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

var ErrUnsupportedMode = errors.New("figure: mode must spell each letter once")

// Scale resolves figures above a bass in a key. Figures count scale degrees
// from the bass, so a "6" above the second degree is the seventh degree.
type Scale struct {
	Key    *scale.Concrete
	keySig map[int]int // letter step -> alteration
}

// NewScale builds the figured bass scale for a tonic such as "B" or "e-"
// and a seven note mode such as "major" or "minor".
func NewScale(tonic string, mode string) (*Scale, error) {
	t, err := pitch.Parse(tonic)
	if err != nil {
		return nil, err
	}
	key, err := scale.New(t, mode)
	if err != nil {
		return nil, err
	}
	return FromConcrete(key)
}

func FromConcrete(key *scale.Concrete) (*Scale, error) {
	names, err := key.PitchNames()
	if err != nil {
		return nil, err
	}
	sig := make(map[int]int)
	for _, name := range names {
		p, err := pitch.Parse(name)
		if err != nil {
			return nil, err
		}
		if _, dup := sig[p.Step]; dup {
			return nil, errors.Wrapf(ErrUnsupportedMode, "%s", key.Name())
		}
		sig[p.Step] = p.Alter
	}
	if len(sig) != 7 {
		return nil, errors.Wrapf(ErrUnsupportedMode, "%s", key.Name())
	}
	return &Scale{Key: key, keySig: sig}, nil
}

func (s *Scale) String() string {
	return s.Key.Name()
}

// AccidentalByStep is the key signature's alteration for a letter step.
func (s *Scale) AccidentalByStep(step int) int {
	return s.keySig[step]
}

// BassDegree is the scale degree of the bass. A bass outside the key is
// placed on the degree of its letter.
func (s *Scale) BassDegree(bass pitch.Pitch) int {
	if d, ok := s.Key.DegreeFromPitch(bass); ok {
		return d
	}
	inKey := bass
	inKey.Alter = s.keySig[bass.Step]
	if d, ok := s.Key.DegreeFromPitch(inKey); ok {
		return d
	}
	return 1
}

// PitchNames returns the bass name followed by the names the figures imply,
// lowest figure first.
func (s *Scale) PitchNames(bass pitch.Pitch, n Notation) []string {
	bassDegree := s.BassDegree(bass)

	var names []string
	for _, f := range n.Figures {
		degree := util.Mod(bassDegree+f.Number-2, 7) + 1
		p, ok := s.Key.PitchFromDegree(degree)
		if !ok {
			continue
		}
		names = append(names, f.Modifier.Apply(p).Name())
	}
	names = append(names, bass.Name())
	util.Reverse(names)
	return names
}
