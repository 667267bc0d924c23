package pitch

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

// Interval is a directed distance between two spelled pitches. Steps counts
// staff positions (0 is a unison, 1 a second, 7 an octave) and Semitones the
// chromatic distance. Both carry the direction in their sign.
type Interval struct {
	Steps     int
	Semitones int
}

// perfectable simple steps: unison, fourth, fifth
var perfectable = [7]bool{true, false, false, true, true, false, false}

func NewInterval(steps, semitones int) Interval {
	return Interval{Steps: steps, Semitones: semitones}
}

// Between returns the interval that transposes a onto b.
func Between(a, b Pitch) Interval {
	return Interval{
		Steps:     b.DiatonicNumber() - a.DiatonicNumber(),
		Semitones: b.PS() - a.PS(),
	}
}

// Direction is 1 ascending, -1 descending and 0 for a perfect unison.
func (iv Interval) Direction() int {
	if iv.Steps != 0 {
		return sign(iv.Steps)
	}
	return sign(iv.Semitones)
}

func (iv Interval) Reverse() Interval {
	return Interval{Steps: -iv.Steps, Semitones: -iv.Semitones}
}

// Generic is the signed generic interval number: 1 for a unison, 2 for a
// second, -3 for a descending third.
func (iv Interval) Generic() int {
	g := util.Abs(iv.Steps) + 1
	if iv.Direction() < 0 {
		return -g
	}
	return g
}

func (iv Interval) IsZero() bool {
	return iv.Steps == 0 && iv.Semitones == 0
}

func (iv Interval) Add(o Interval) Interval {
	return Interval{Steps: iv.Steps + o.Steps, Semitones: iv.Semitones + o.Semitones}
}

// TransposePitch moves p by the interval. When the result carries more than
// maxAccidental sharps or flats it is respelled enharmonically; a negative
// ceiling keeps the interval's spelling however remote.
func (iv Interval) TransposePitch(p Pitch, maxAccidental int) Pitch {
	dn := p.DiatonicNumber() + iv.Steps
	step := util.Mod(dn, 7)
	octave := util.FloorDiv(dn, 7)
	natural := 12*(octave+1) + stepPitchClasses[step]
	out := Pitch{Step: step, Alter: p.PS() + iv.Semitones - natural, Octave: octave}
	return out.Simplify(maxAccidental)
}

func (iv Interval) magnitude() (steps, semitones int) {
	if iv.Direction() < 0 {
		return -iv.Steps, -iv.Semitones
	}
	return iv.Steps, iv.Semitones
}

// Name is the undirected name, e.g. "M2", "P8", "m10", "AA4".
func (iv Interval) Name() string {
	steps, semis := iv.magnitude()
	return quality(steps, semis) + strconv.Itoa(steps+1)
}

// DirectedName prefixes descending intervals with '-'.
func (iv Interval) DirectedName() string {
	if iv.Direction() < 0 {
		return "-" + iv.Name()
	}
	return iv.Name()
}

// SimpleName reduces compound intervals, octaves included, to within an
// octave: a P8 is a "P1".
func (iv Interval) SimpleName() string {
	steps, semis := iv.magnitude()
	octaves := steps / 7
	steps -= 7 * octaves
	semis -= 12 * octaves
	return quality(steps, semis) + strconv.Itoa(steps+1)
}

// SemiSimpleName is SimpleName except that octaves and compound octaves stay
// "P8" and only true unisons are "P1".
func (iv Interval) SemiSimpleName() string {
	steps, semis := iv.magnitude()
	if steps >= 7 && steps%7 == 0 {
		octaves := steps/7 - 1
		return quality(7, semis-12*octaves) + "8"
	}
	return iv.SimpleName()
}

// DirectedSimpleName is SimpleName with a '-' for descending intervals. Simple
// unisons carry no direction.
func (iv Interval) DirectedSimpleName() string {
	name := iv.SimpleName()
	steps, _ := iv.magnitude()
	if iv.Direction() < 0 && steps%7 != 0 {
		return "-" + name
	}
	return name
}

func (iv Interval) String() string {
	return iv.DirectedName()
}

func quality(steps, semis int) string {
	simple := util.Mod(steps, 7)
	base := 12*util.FloorDiv(steps, 7) + stepPitchClasses[simple]
	diff := semis - base
	if perfectable[simple] {
		switch {
		case diff == 0:
			return "P"
		case diff > 0:
			return strings.Repeat("A", diff)
		default:
			return strings.Repeat("d", -diff)
		}
	}
	switch {
	case diff == 0:
		return "M"
	case diff == -1:
		return "m"
	case diff > 0:
		return strings.Repeat("A", diff)
	default:
		return strings.Repeat("d", -diff-1)
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

type intervalExpr struct {
	Sign    string `parser:"@Sign?"`
	Quality string `parser:"@Quality"`
	Number  int    `parser:"@Int"`
}

var intervalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Sign", Pattern: `[-+]`},
	{Name: "Quality", Pattern: `P|M|m|A+|d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "whitespace", Pattern: `\s+`},
})

var parseIntervalExpr = participle.MustBuild[intervalExpr](participle.Lexer(intervalLexer))

// ParseInterval reads a short-form name such as "M2", "m3", "P4", "d2",
// "AA4", "P12" or "-m3" (descending).
func ParseInterval(s string) (Interval, error) {
	expr, err := parseIntervalExpr.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Interval{}, errors.Wrapf(ErrBadInterval, "%q: %v", s, err)
	}
	if expr.Number < 1 {
		return Interval{}, errors.Wrapf(ErrBadInterval, "%q: generic number must be at least 1", s)
	}

	steps := expr.Number - 1
	simple := steps % 7
	semis := 12*(steps/7) + stepPitchClasses[simple]

	q := expr.Quality
	switch {
	case q == "P":
		if !perfectable[simple] {
			return Interval{}, errors.Wrapf(ErrBadInterval, "%q: %d cannot be perfect", s, expr.Number)
		}
	case q == "M" || q == "m":
		if perfectable[simple] {
			return Interval{}, errors.Wrapf(ErrBadInterval, "%q: %d cannot be major or minor", s, expr.Number)
		}
		if q == "m" {
			semis--
		}
	case q[0] == 'A':
		semis += len(q)
	case q[0] == 'd':
		if perfectable[simple] {
			semis -= len(q)
		} else {
			semis -= len(q) + 1
		}
	}

	iv := Interval{Steps: steps, Semitones: semis}
	if expr.Sign == "-" {
		iv = iv.Reverse()
	}
	return iv, nil
}

func MustParseInterval(s string) Interval {
	iv, err := ParseInterval(s)
	if err != nil {
		panic(err)
	}
	return iv
}

// ParseIntervals parses a list of names, stopping at the first bad one.
func ParseIntervals(names []string) ([]Interval, error) {
	res := make([]Interval, 0, len(names))
	for _, name := range names {
		iv, err := ParseInterval(name)
		if err != nil {
			return nil, err
		}
		res = append(res, iv)
	}
	return res, nil
}

func MustParseIntervals(names []string) []Interval {
	res, err := ParseIntervals(names)
	if err != nil {
		panic(err)
	}
	return res
}
