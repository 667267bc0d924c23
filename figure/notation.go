package figure

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
)

var ErrBadNotation = errors.New("figure: bad notation")

// Modifier alters the pitch a figure names. Natural cancels any alteration
// the key gives it.
type Modifier struct {
	Alter   int
	Natural bool
}

func (m Modifier) IsZero() bool {
	return m.Alter == 0 && !m.Natural
}

func (m Modifier) Apply(p pitch.Pitch) pitch.Pitch {
	if m.Natural {
		p.Alter = 0
		return p
	}
	p.Alter += m.Alter
	return p
}

func (m Modifier) String() string {
	switch {
	case m.Natural:
		return "n"
	case m.Alter > 0:
		return strings.Repeat("#", m.Alter)
	case m.Alter < 0:
		return strings.Repeat("b", -m.Alter)
	}
	return ""
}

// Figure is one interval number above the bass with its modifier.
type Figure struct {
	Number   int
	Modifier Modifier
}

func (f Figure) String() string {
	return f.Modifier.String() + strconv.Itoa(f.Number)
}

// Notation is a parsed figure string with shorthand expanded.
type Notation struct {
	Raw     string
	Figures []Figure
}

func (n Notation) Numbers() []int {
	res := make([]int, 0, len(n.Figures))
	for _, f := range n.Figures {
		res = append(res, f.Number)
	}
	return res
}

func (n Notation) String() string {
	parts := make([]string, 0, len(n.Figures))
	for _, f := range n.Figures {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ",")
}

// shorthand maps figures as written to the full set they imply.
var shorthand = map[string][]int{
	"":      {5, 3},
	"3":     {5, 3},
	"5":     {5, 3},
	"6":     {6, 3},
	"7":     {7, 5, 3},
	"9":     {9, 7, 5, 3},
	"11":    {11, 9, 7, 5, 3},
	"13":    {13, 11, 9, 7, 5, 3},
	"6,5":   {6, 5, 3},
	"4,3":   {6, 4, 3},
	"4,2":   {6, 4, 2},
	"2":     {6, 4, 2},
	"5,3":   {5, 3},
	"6,3":   {6, 3},
	"7,5,3": {7, 5, 3},
}

type notationExpr struct {
	Figures []*figureExpr `parser:"( @@ ( \",\" @@ )* )?"`
}

type figureExpr struct {
	Prefix []string `parser:"@Modifier*"`
	Number *int     `parser:"@Int?"`
	Suffix []string `parser:"@Modifier*"`
}

var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Modifier", Pattern: `[#b\-n+/\\]`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `,`},
	{Name: "whitespace", Pattern: `\s+`},
})

var parseNotationExpr = participle.MustBuild[notationExpr](participle.Lexer(notationLexer))

// Parse reads figured bass notation such as "", "6", "6,4", "#6,5", "b7",
// "4+" or "#". '#', '+' and '/' raise; 'b', '-' and '\' lower; 'n'
// naturalises. A modifier without a number applies to the third.
func Parse(s string) (Notation, error) {
	raw := strings.TrimSpace(s)
	expr := &notationExpr{}
	if raw != "" {
		var err error
		expr, err = parseNotationExpr.ParseString("", raw)
		if err != nil {
			return Notation{}, errors.Wrapf(ErrBadNotation, "%q: %v", s, err)
		}
	}

	var written []int
	mods := make(map[int]Modifier)
	var bare *Modifier
	for _, fe := range expr.Figures {
		if fe == nil {
			return Notation{}, errors.Wrapf(ErrBadNotation, "%q: empty figure", s)
		}
		mod, err := parseModifier(append(append([]string(nil), fe.Prefix...), fe.Suffix...))
		if err != nil {
			return Notation{}, errors.Wrapf(err, "%q", s)
		}
		if fe.Number == nil {
			if mod.IsZero() {
				return Notation{}, errors.Wrapf(ErrBadNotation, "%q: empty figure", s)
			}
			m := mod
			bare = &m
			continue
		}
		if *fe.Number < 1 {
			return Notation{}, errors.Wrapf(ErrBadNotation, "%q: figure %d", s, *fe.Number)
		}
		written = append(written, *fe.Number)
		if !mod.IsZero() {
			mods[*fe.Number] = mod
		}
	}

	numbers, ok := shorthand[key(written)]
	if !ok {
		numbers = written
	}
	if bare != nil {
		if _, taken := mods[3]; !taken {
			mods[3] = *bare
		}
		if !contains(numbers, 3) {
			numbers = append(append([]int(nil), numbers...), 3)
		}
	}

	n := Notation{Raw: raw}
	for _, num := range numbers {
		n.Figures = append(n.Figures, Figure{Number: num, Modifier: mods[num]})
	}
	return n, nil
}

func MustParse(s string) Notation {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func parseModifier(tokens []string) (Modifier, error) {
	var m Modifier
	for _, t := range tokens {
		switch t {
		case "#", "+", "/":
			m.Alter++
		case "b", "-", "\\":
			m.Alter--
		case "n":
			m.Natural = true
		}
	}
	if m.Natural && len(tokens) > 1 {
		return Modifier{}, errors.Wrap(ErrBadNotation, "natural cannot combine with other modifiers")
	}
	return m, nil
}

func key(numbers []int) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

func contains(nums []int, n int) bool {
	for _, v := range nums {
		if v == n {
			return true
		}
	}
	return false
}
