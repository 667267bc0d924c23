package rules

import (
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidRules = errors.New("rules: invalid rules")

var validate = validator.New()

// PitchLimit bounds the pitches a part may sing. Part 1 is the highest voice.
type PitchLimit struct {
	Part    int         `yaml:"part" validate:"min=1"`
	Lowest  pitch.Pitch `yaml:"lowest"`
	Highest pitch.Pitch `yaml:"highest"`
}

// MovementLimit caps how far a part may leap between two events, in
// semitones.
type MovementLimit struct {
	Part          int `yaml:"part" validate:"min=1"`
	MaxSeparation int `yaml:"maxSeparation" validate:"min=0"`
}

// Rules configures which possibilities and movements a realization accepts.
// A nil UpperPartsMaxSemitoneSeparation disables the spacing check.
// ResolveTendencyTones makes the leading tone rise and the seventh fall by
// step out of a dominant seventh. PartsToCheck lists parts, 1 highest, that
// must hold their pitch across every move.
type Rules struct {
	ForbidIncompletePossibilities   bool            `yaml:"forbidIncompletePossibilities"`
	UpperPartsMaxSemitoneSeparation *int            `yaml:"upperPartsMaxSemitoneSeparation" validate:"omitempty,min=0"`
	ForbidVoiceCrossing             bool            `yaml:"forbidVoiceCrossing"`
	PartPitchLimits                 []PitchLimit    `yaml:"partPitchLimits" validate:"dive"`
	ForbidParallelFifths            bool            `yaml:"forbidParallelFifths"`
	ForbidParallelOctaves           bool            `yaml:"forbidParallelOctaves"`
	ForbidHiddenFifths              bool            `yaml:"forbidHiddenFifths"`
	ForbidHiddenOctaves             bool            `yaml:"forbidHiddenOctaves"`
	ForbidVoiceOverlap              bool            `yaml:"forbidVoiceOverlap"`
	PartMovementLimits              []MovementLimit `yaml:"partMovementLimits" validate:"dive"`
	ResolveTendencyTones            bool            `yaml:"resolveTendencyTones"`
	PartsToCheck                    []int           `yaml:"partsToCheck" validate:"dive,min=1"`
	UpperPartsRemainSame            bool            `yaml:"upperPartsRemainSame"`
}

// Default is the strict four-part rule set.
func Default() *Rules {
	separation := 12
	return &Rules{
		ForbidIncompletePossibilities:   true,
		UpperPartsMaxSemitoneSeparation: &separation,
		ForbidVoiceCrossing:             true,
		ForbidParallelFifths:            true,
		ForbidParallelOctaves:           true,
		ForbidHiddenFifths:              true,
		ForbidHiddenOctaves:             true,
		ForbidVoiceOverlap:              true,
		ResolveTendencyTones:            true,
	}
}

func (r *Rules) Clone() *Rules {
	c := *r
	if r.UpperPartsMaxSemitoneSeparation != nil {
		sep := *r.UpperPartsMaxSemitoneSeparation
		c.UpperPartsMaxSemitoneSeparation = &sep
	}
	c.PartPitchLimits = append([]PitchLimit(nil), r.PartPitchLimits...)
	c.PartMovementLimits = append([]MovementLimit(nil), r.PartMovementLimits...)
	c.PartsToCheck = append([]int(nil), r.PartsToCheck...)
	return &c
}

// Validate checks field ranges and, when numParts is positive, that every
// limited part exists.
func (r *Rules) Validate(numParts int) error {
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(ErrInvalidRules, err.Error())
	}
	for _, l := range r.PartPitchLimits {
		if l.Highest.PS() < l.Lowest.PS() {
			return errors.Wrapf(ErrInvalidRules, "part %d: %s is above %s", l.Part, l.Lowest, l.Highest)
		}
		if numParts > 0 && l.Part > numParts {
			return errors.Wrapf(ErrInvalidRules, "pitch limit for part %d of %d", l.Part, numParts)
		}
	}
	for _, l := range r.PartMovementLimits {
		if numParts > 0 && l.Part > numParts {
			return errors.Wrapf(ErrInvalidRules, "movement limit for part %d of %d", l.Part, numParts)
		}
	}
	for _, part := range r.PartsToCheck {
		if numParts > 0 && part > numParts {
			return errors.Wrapf(ErrInvalidRules, "held part %d of %d", part, numParts)
		}
	}
	return nil
}

// Decode reads YAML over the defaults, so a file only names what it changes.
func Decode(r io.Reader) (*Rules, error) {
	res := Default()
	if err := yaml.NewDecoder(r).Decode(res); err != nil && err != io.EOF {
		return nil, errors.Wrap(ErrInvalidRules, err.Error())
	}
	if err := res.Validate(0); err != nil {
		return nil, err
	}
	return res, nil
}

func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening rules %s", path)
	}
	defer f.Close()
	res, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "rules %s", path)
	}
	return res, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
func LoadOrDefault(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
