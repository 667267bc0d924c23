package pitch

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
)

var (
	ErrBadPitch    = errors.New("pitch: bad pitch name")
	ErrBadInterval = errors.New("pitch: bad interval name")
)

// DefaultOctave is the octave given to pitches spelled without one.
const DefaultOctave = 4

var stepNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}
var stepPitchClasses = [7]int{0, 2, 4, 5, 7, 9, 11}

// Pitch is a spelled pitch: a diatonic step letter, a chromatic alteration
// and an octave. C4 is middle C (pitch space 60).
type Pitch struct {
	Step   int // 0=C ... 6=B
	Alter  int // sharps are positive, flats negative
	Octave int

	// ImplicitOctave is set when the pitch was spelled without an octave.
	// Octave then holds DefaultOctave.
	ImplicitOctave bool
}

func New(step, alter, octave int) Pitch {
	return Pitch{Step: util.Mod(step, 7), Alter: alter, Octave: octave}
}

// FromMIDI spells a MIDI key number with sharps.
func FromMIDI(key int) Pitch {
	pc := util.Mod(key, 12)
	octave := util.FloorDiv(key, 12) - 1
	for step := 6; step >= 0; step-- {
		if stepPitchClasses[step] <= pc {
			return Pitch{Step: step, Alter: pc - stepPitchClasses[step], Octave: octave}
		}
	}
	return Pitch{Octave: octave}
}

// PS is the pitch space value, equal to the MIDI key number.
func (p Pitch) PS() int {
	return 12*(p.Octave+1) + stepPitchClasses[p.Step] + p.Alter
}

func (p Pitch) PitchClass() int {
	return util.Mod(p.PS(), 12)
}

// DiatonicNumber counts staff positions from C0.
func (p Pitch) DiatonicNumber() int {
	return p.Octave*7 + p.Step
}

func (p Pitch) Name() string {
	var sb strings.Builder
	sb.WriteString(stepNames[p.Step])
	if p.Alter > 0 {
		sb.WriteString(strings.Repeat("#", p.Alter))
	} else if p.Alter < 0 {
		sb.WriteString(strings.Repeat("-", -p.Alter))
	}
	return sb.String()
}

func (p Pitch) NameWithOctave() string {
	return p.Name() + strconv.Itoa(p.Octave)
}

func (p Pitch) String() string {
	return p.NameWithOctave()
}

// Equal compares spelling and octave.
func (p Pitch) Equal(o Pitch) bool {
	return p.Step == o.Step && p.Alter == o.Alter && p.Octave == o.Octave
}

func (p Pitch) EnharmonicEqual(o Pitch) bool {
	return p.PS() == o.PS()
}

func (p Pitch) Less(o Pitch) bool {
	return p.PS() < o.PS()
}

// WithOctave returns a copy carrying an explicit octave.
func (p Pitch) WithOctave(octave int) Pitch {
	p.Octave = octave
	p.ImplicitOctave = false
	return p
}

// Transpose moves the pitch by the interval, keeping the spelling the
// interval implies.
func (p Pitch) Transpose(iv Interval) Pitch {
	return iv.TransposePitch(p, -1)
}

// TransposeSemitones moves the pitch by a number of semitones. Octave
// multiples keep the spelling; other distances are respelled with sharps.
func (p Pitch) TransposeSemitones(semitones int) Pitch {
	if semitones%12 == 0 {
		out := p
		out.Octave += semitones / 12
		out.ImplicitOctave = false
		return out
	}
	return FromMIDI(p.PS() + semitones)
}

// Simplify respells the pitch enharmonically when it carries more than
// maxAccidental sharps or flats. A negative ceiling leaves it alone.
func (p Pitch) Simplify(maxAccidental int) Pitch {
	if maxAccidental < 0 || util.Abs(p.Alter) <= maxAccidental {
		return p
	}
	ps := p.PS()
	best := p
	for dn := p.DiatonicNumber() - 2; dn <= p.DiatonicNumber()+2; dn++ {
		step := util.Mod(dn, 7)
		octave := util.FloorDiv(dn, 7)
		natural := 12*(octave+1) + stepPitchClasses[step]
		cand := Pitch{Step: step, Alter: ps - natural, Octave: octave}
		if util.Abs(cand.Alter) < util.Abs(best.Alter) ||
			(util.Abs(cand.Alter) == util.Abs(best.Alter) && sameSign(cand.Alter, p.Alter) && !sameSign(best.Alter, p.Alter)) {
			best = cand
		}
	}
	best.ImplicitOctave = p.ImplicitOctave
	return best
}

func sameSign(a, b int) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

// Comparison names the attribute two pitches are compared by when
// searching a realization.
type Comparison string

const (
	ComparePS             Comparison = "ps"
	ComparePitchClass     Comparison = "pitchClass"
	CompareName           Comparison = "name"
	CompareNameWithOctave Comparison = "nameWithOctave"
)

// Same reports whether a and b agree on the compared attribute.
func (c Comparison) Same(a, b Pitch) bool {
	switch c {
	case ComparePitchClass:
		return a.PitchClass() == b.PitchClass()
	case CompareName:
		return a.Name() == b.Name()
	case CompareNameWithOctave:
		return a.NameWithOctave() == b.NameWithOctave()
	default:
		return a.PS() == b.PS()
	}
}

type pitchExpr struct {
	Step        string   `parser:"@Step"`
	Accidentals []string `parser:"@Accidental*"`
	Octave      *int     `parser:"@Int?"`
}

var pitchLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Step", Pattern: `[A-Ga-g]`},
	{Name: "Accidental", Pattern: `[#\-n]`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "whitespace", Pattern: `\s+`},
})

var parsePitchExpr = participle.MustBuild[pitchExpr](participle.Lexer(pitchLexer))

// Parse reads a spelling such as "c4", "C#", "b-4", "e--3" or "Fn5".
// '#' raises, '-' lowers and 'n' marks an explicit natural.
func Parse(s string) (Pitch, error) {
	expr, err := parsePitchExpr.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Pitch{}, errors.Wrapf(ErrBadPitch, "%q: %v", s, err)
	}

	var p Pitch
	p.Step = strings.Index("CDEFGAB", strings.ToUpper(expr.Step))

	natural := false
	for _, acc := range expr.Accidentals {
		switch acc {
		case "#":
			p.Alter++
		case "-":
			p.Alter--
		case "n":
			natural = true
		}
	}
	if natural && len(expr.Accidentals) > 1 {
		return Pitch{}, errors.Wrapf(ErrBadPitch, "%q: natural cannot combine with other accidentals", s)
	}
	if p.Alter != 0 && util.Abs(p.Alter) != len(expr.Accidentals) || !natural && p.Alter == 0 && len(expr.Accidentals) > 0 {
		return Pitch{}, errors.Wrapf(ErrBadPitch, "%q: mixed sharps and flats", s)
	}

	if expr.Octave == nil {
		p.Octave = DefaultOctave
		p.ImplicitOctave = true
	} else {
		p.Octave = *expr.Octave
	}
	return p, nil
}

func MustParse(s string) Pitch {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseAll parses a list of spellings, stopping at the first bad one.
func ParseAll(names []string) ([]Pitch, error) {
	res := make([]Pitch, 0, len(names))
	for _, name := range names {
		p, err := Parse(name)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

func MustParseAll(names []string) []Pitch {
	res, err := ParseAll(names)
	if err != nil {
		panic(err)
	}
	return res
}

func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pitch) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
