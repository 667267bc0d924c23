package realizer

import (
	"strings"

	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/figure"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
)

var (
	ErrEmptyLine = errors.New("realizer: line has no notes")
	ErrNoKey     = errors.New("realizer: line has no key")
)

// Event is one bass note with its figures.
type Event struct {
	Bass     pitch.Pitch
	Notation figure.Notation
}

func (e Event) String() string {
	if len(e.Notation.Raw) == 0 {
		return e.Bass.String()
	}
	return e.Bass.String() + ":" + e.Notation.Raw
}

// Line is a figured bass line in a key.
type Line struct {
	Scale    *figure.Scale
	NumParts int
	MaxPitch pitch.Pitch
	Events   []Event
}

type LineOption func(*Line)

func WithNumParts(n int) LineOption {
	return func(l *Line) {
		l.NumParts = n
	}
}

func WithMaxPitch(p pitch.Pitch) LineOption {
	return func(l *Line) {
		l.MaxPitch = p
	}
}

func NewLine(scale *figure.Scale, opts ...LineOption) *Line {
	l := &Line{
		Scale:    scale,
		NumParts: constants.DefaultNumParts,
		MaxPitch: pitch.MustParse(constants.DefaultMaxPitch),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add appends a bass note and its figure string.
func (l *Line) Add(bass pitch.Pitch, notation string) error {
	n, err := figure.Parse(notation)
	if err != nil {
		return err
	}
	l.Events = append(l.Events, Event{Bass: bass, Notation: n})
	return nil
}

// ParseLine reads events such as "B2 C#3:6 D#3:6,5". Figures follow the
// bass after a colon.
func ParseLine(scale *figure.Scale, s string, opts ...LineOption) (*Line, error) {
	l := NewLine(scale, opts...)
	for _, tok := range strings.Fields(s) {
		bassStr, notation, _ := strings.Cut(tok, ":")
		bass, err := pitch.Parse(bassStr)
		if err != nil {
			return nil, errors.Wrapf(err, "event %q", tok)
		}
		if err := l.Add(bass, notation); err != nil {
			return nil, errors.Wrapf(err, "event %q", tok)
		}
	}
	if len(l.Events) == 0 {
		return nil, ErrEmptyLine
	}
	return l, nil
}

func (l *Line) String() string {
	parts := make([]string, 0, len(l.Events))
	for _, e := range l.Events {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}
