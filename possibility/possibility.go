package possibility

import (
	"strings"

	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/rules"
	"github.com/jsphweid/harmonet/util"
)

// Possibility is one pitch per voice, highest part first and bass last.
type Possibility []pitch.Pitch

// Key identifies a possibility by spelling and octave, e.g. "F#4 D#4 B3 B2".
func (p Possibility) Key() string {
	parts := make([]string, 0, len(p))
	for _, v := range p {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, " ")
}

func (p Possibility) String() string {
	return "(" + p.Key() + ")"
}

func (p Possibility) Bass() pitch.Pitch {
	return p[len(p)-1]
}

func (p Possibility) Upper() Possibility {
	return p[:len(p)-1]
}

func (p Possibility) Equal(o Possibility) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Unary rules

// IsIncomplete reports whether some pitch name is missing from p.
func IsIncomplete(p Possibility, pitchNames []string) bool {
	got := make(map[string]bool, len(p))
	for _, v := range p {
		got[v.Name()] = true
	}
	for _, name := range pitchNames {
		if !got[name] {
			return true
		}
	}
	return false
}

// UpperPartsWithinLimit reports whether every pair of upper parts is at most
// maxSeparation semitones apart.
func UpperPartsWithinLimit(p Possibility, maxSeparation int) bool {
	upper := p.Upper()
	for i := range upper {
		for j := i + 1; j < len(upper); j++ {
			if util.Abs(upper[i].PS()-upper[j].PS()) > maxSeparation {
				return false
			}
		}
	}
	return true
}

// VoiceCrossing reports whether a lower part sounds above a higher one.
func VoiceCrossing(p Possibility) bool {
	for i := range p {
		for j := i + 1; j < len(p); j++ {
			if p[i].PS() < p[j].PS() {
				return true
			}
		}
	}
	return false
}

// PartPitchesWithinLimits reports whether each limited part lies within its
// range.
func PartPitchesWithinLimits(p Possibility, limits []rules.PitchLimit) bool {
	for _, l := range limits {
		if l.Part < 1 || l.Part > len(p) {
			continue
		}
		ps := p[l.Part-1].PS()
		if ps < l.Lowest.PS() || ps > l.Highest.PS() {
			return false
		}
	}
	return true
}

// Consecutive rules. a sounds before b.

// PartsSame reports whether the given 1-based parts keep their pitches.
// Parts out of range are ignored.
func PartsSame(a, b Possibility, parts []int) bool {
	for _, part := range parts {
		if part < 1 || part > len(a) {
			continue
		}
		if !a[part-1].Equal(b[part-1]) {
			return false
		}
	}
	return true
}

func UpperPartsSame(a, b Possibility) bool {
	for i := 0; i < len(a)-1; i++ {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// VoiceOverlap reports whether a part moves above where a higher part just
// was, or below where a lower part just was.
func VoiceOverlap(a, b Possibility) bool {
	for i := range a {
		for j := i + 1; j < len(a); j++ {
			if b[j].PS() > a[i].PS() || b[i].PS() < a[j].PS() {
				return true
			}
		}
	}
	return false
}

// PartMovementsWithinLimits reports whether each limited part moves at most
// its maximum number of semitones.
func PartMovementsWithinLimits(a, b Possibility, limits []rules.MovementLimit) bool {
	for _, l := range limits {
		if l.Part < 1 || l.Part > len(a) {
			continue
		}
		if util.Abs(a[l.Part-1].PS()-b[l.Part-1].PS()) > l.MaxSeparation {
			return false
		}
	}
	return true
}

// ParallelFifths reports whether two parts move from one perfect fifth to
// another. Fifths by contrary motion count too, which is stricter than
// flagging only parts that move the same way.
func ParallelFifths(a, b Possibility) bool {
	return parallel(a, b, fifth)
}

// ParallelOctaves also covers unisons reached from an octave, by similar or
// contrary motion. Unisons moving to unisons are doubled voices and pass.
func ParallelOctaves(a, b Possibility) bool {
	return parallel(a, b, octave)
}

// HiddenFifth reports whether the outer parts reach a fifth by similar
// motion from another interval.
func HiddenFifth(a, b Possibility) bool {
	return hidden(a, b, fifth)
}

func HiddenOctave(a, b Possibility) bool {
	return hidden(a, b, octave)
}
