package segment

import (
	"sort"
	"sync"

	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/figure"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/possibility"
	"github.com/jsphweid/harmonet/rules"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

var (
	ErrIncompatibleSegments = errors.New("segment: segments have different part counts")
	ErrTooFewParts          = errors.New("segment: need a bass and at least one upper part")
)

// Segment is one bass note and its figures, realized as every legal
// voicing above the bass.
type Segment struct {
	Bass       pitch.Pitch
	Notation   figure.Notation
	Scale      *figure.Scale
	Rules      *rules.Rules
	NumParts   int
	MaxPitch   pitch.Pitch
	PitchNames []string

	// set when the chord is a dominant seventh
	tendency    possibility.Tendency
	hasTendency bool

	singlesOnce sync.Once
	singles     []possibility.Possibility

	movements *Movements
}

type Option func(*Segment)

func WithRules(r *rules.Rules) Option {
	return func(s *Segment) {
		s.Rules = r
	}
}

func WithNumParts(n int) Option {
	return func(s *Segment) {
		s.NumParts = n
	}
}

func WithMaxPitch(p pitch.Pitch) Option {
	return func(s *Segment) {
		s.MaxPitch = p
	}
}

func New(bass pitch.Pitch, notation figure.Notation, scale *figure.Scale, opts ...Option) (*Segment, error) {
	s := &Segment{
		Bass:     bass,
		Notation: notation,
		Scale:    scale,
		Rules:    rules.Default(),
		NumParts: constants.DefaultNumParts,
		MaxPitch: pitch.MustParse(constants.DefaultMaxPitch),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.NumParts < 2 {
		return nil, errors.Wrapf(ErrTooFewParts, "%d parts", s.NumParts)
	}
	if err := s.Rules.Validate(s.NumParts); err != nil {
		return nil, err
	}
	s.PitchNames = scale.PitchNames(bass, notation)
	s.tendency, s.hasTendency = possibility.DominantSeventh(s.PitchNames)
	return s, nil
}

// Tendency returns the tones that must resolve out of this segment when its
// chord is a dominant seventh.
func (s *Segment) Tendency() (possibility.Tendency, bool) {
	return s.tendency, s.hasTendency
}

func (s *Segment) String() string {
	return s.Bass.String() + " " + s.Notation.String()
}

// AllPitchesAboveBass lists every pitch spelled like a chord member from the
// bass up to the maximum pitch, lowest first.
func (s *Segment) AllPitchesAboveBass() []pitch.Pitch {
	var res []pitch.Pitch
	for _, name := range s.PitchNames {
		p, err := pitch.Parse(name)
		if err != nil {
			continue
		}
		for octave := 0; octave <= s.MaxPitch.Octave; octave++ {
			candidate := p.WithOctave(octave)
			if candidate.PS() < s.Bass.PS() || candidate.PS() > s.MaxPitch.PS() {
				continue
			}
			res = append(res, candidate)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].PS() < res[j].PS()
	})
	return res
}

// AllCorrectSinglePossibilities combines candidate pitches for the upper
// parts and keeps the voicings no unary rule rejects. The result is computed
// once and shared.
func (s *Segment) AllCorrectSinglePossibilities() []possibility.Possibility {
	s.singlesOnce.Do(func() {
		candidates := s.AllPitchesAboveBass()
		util.Product(candidates, s.NumParts-1, func(upper []pitch.Pitch) {
			p := make(possibility.Possibility, 0, s.NumParts)
			p = append(p, upper...)
			p = append(p, s.Bass)
			if s.isCorrectSingle(p) {
				s.singles = append(s.singles, p)
			}
		})
	})
	return s.singles
}

func (s *Segment) isCorrectSingle(p possibility.Possibility) bool {
	r := s.Rules
	if r.ForbidIncompletePossibilities && possibility.IsIncomplete(p, s.PitchNames) {
		return false
	}
	if r.UpperPartsMaxSemitoneSeparation != nil && !possibility.UpperPartsWithinLimit(p, *r.UpperPartsMaxSemitoneSeparation) {
		return false
	}
	if r.ForbidVoiceCrossing && possibility.VoiceCrossing(p) {
		return false
	}
	if len(r.PartPitchLimits) > 0 && !possibility.PartPitchesWithinLimits(p, r.PartPitchLimits) {
		return false
	}
	return true
}

// IsCorrectConsecutive applies this segment's consecutive rules to a move
// from a into b.
func (s *Segment) IsCorrectConsecutive(a, b possibility.Possibility) bool {
	r := s.Rules
	if r.ForbidVoiceOverlap && possibility.VoiceOverlap(a, b) {
		return false
	}
	if len(r.PartMovementLimits) > 0 && !possibility.PartMovementsWithinLimits(a, b, r.PartMovementLimits) {
		return false
	}
	if r.ForbidParallelFifths && possibility.ParallelFifths(a, b) {
		return false
	}
	if r.ForbidParallelOctaves && possibility.ParallelOctaves(a, b) {
		return false
	}
	if r.ForbidHiddenFifths && possibility.HiddenFifth(a, b) {
		return false
	}
	if r.ForbidHiddenOctaves && possibility.HiddenOctave(a, b) {
		return false
	}
	if r.ResolveTendencyTones && s.hasTendency && !possibility.TendencyTonesResolve(a, b, s.tendency) {
		return false
	}
	if len(r.PartsToCheck) > 0 && !possibility.PartsSame(a, b, r.PartsToCheck) {
		return false
	}
	if r.UpperPartsRemainSame && !possibility.UpperPartsSame(a, b) {
		return false
	}
	return true
}

// AllCorrectConsecutivePossibilities pairs each of this segment's
// possibilities with the possibilities of next it may move to. Possibilities
// with nowhere to go are left out.
func (s *Segment) AllCorrectConsecutivePossibilities(next *Segment) (*Movements, error) {
	if s.NumParts != next.NumParts {
		return nil, errors.Wrapf(ErrIncompatibleSegments, "%d and %d", s.NumParts, next.NumParts)
	}
	res := NewMovements()
	targets := next.AllCorrectSinglePossibilities()
	for _, a := range s.AllCorrectSinglePossibilities() {
		var to []possibility.Possibility
		for _, b := range targets {
			if s.IsCorrectConsecutive(a, b) {
				to = append(to, b)
			}
		}
		if len(to) > 0 {
			res.Put(a, to)
		}
	}
	return res, nil
}

// Movements is nil until SetMovements is called, and stays nil on the last
// segment of a line.
func (s *Segment) Movements() *Movements {
	return s.movements
}

func (s *Segment) SetMovements(m *Movements) {
	s.movements = m
}

// TrimAllMovements walks the chain from the end and drops every movement
// into a possibility that cannot continue. Afterwards each kept possibility
// starts at least one complete path to the last segment.
func TrimAllMovements(chain []*Segment) {
	for i := len(chain) - 3; i >= 0; i-- {
		trim(chain[i].movements, chain[i+1].movements)
	}
}

func trim(ab, bc *Movements) {
	if ab == nil || bc == nil {
		return
	}
	for _, b := range bc.Froms() {
		if to, _ := bc.Get(b); len(to) == 0 {
			bc.Remove(b)
		}
	}
	for _, a := range ab.Froms() {
		to, _ := ab.Get(a)
		var kept []possibility.Possibility
		for _, b := range to {
			if bc.Has(b.Key()) {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			ab.Remove(a)
			continue
		}
		ab.Put(a, kept)
	}
}
