package possibility

import (
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
)

// perfect is a perfect interval class: its simple generic distance in
// staff steps and its size in semitones modulo the octave.
type perfect struct {
	generic   int
	semitones int
}

var (
	fifth  = perfect{generic: 4, semitones: 7}
	octave = perfect{generic: 0, semitones: 0}
)

func simpleGeneric(low, high pitch.Pitch) int {
	return util.Abs(high.DiatonicNumber()-low.DiatonicNumber()) % 7
}

func (k perfect) is(low, high pitch.Pitch) bool {
	return simpleGeneric(low, high) == k.generic && util.Abs(high.PS()-low.PS())%12 == k.semitones
}

// motion is the direction a voice moves, by sound and then by staff.
func motion(from, to pitch.Pitch) int {
	if d := to.PS() - from.PS(); d != 0 {
		return sign(d)
	}
	return sign(to.DiatonicNumber() - from.DiatonicNumber())
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

func parallel(a, b Possibility, k perfect) bool {
	for i := range a {
		for j := i + 1; j < len(a); j++ {
			highA, highB := a[i], b[i]
			lowA, lowB := a[j], b[j]
			if !k.is(lowA, highA) || !k.is(lowB, highB) {
				continue
			}
			if lowA.Equal(lowB) || highA.Equal(highB) {
				continue
			}
			if k == octave && lowA.PS() == highA.PS() {
				continue
			}
			return true
		}
	}
	return false
}

func hidden(a, b Possibility, k perfect) bool {
	highA, lowA := a[0], a[len(a)-1]
	highB, lowB := b[0], b[len(b)-1]
	if util.Abs(highB.PS()-lowB.PS())%12 != k.semitones {
		return false
	}
	if highA.Equal(highB) || lowA.Equal(lowB) {
		return false
	}
	if motion(highA, highB) != motion(lowA, lowB) {
		return false
	}
	if simpleGeneric(lowA, highA) == simpleGeneric(lowB, highB) &&
		util.Mod(highA.PS()-lowA.PS(), 12) == util.Mod(highB.PS()-lowB.PS(), 12) {
		return false
	}
	return simpleGeneric(lowB, highB) == k.generic
}

// Tendency holds the tones of a dominant seventh chord that must resolve.
type Tendency struct {
	LeadingTone string
	Seventh     string
}

var (
	majorThird   = pitch.NewInterval(2, 4)
	perfectFifth = pitch.NewInterval(4, 7)
	minorSeventh = pitch.NewInterval(6, 10)
)

// DominantSeventh looks for a root among names whose major third, perfect
// fifth and minor seventh complete the chord, in any inversion. Any such
// chord counts, applied dominants included.
func DominantSeventh(names []string) (Tendency, bool) {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	if len(set) != 4 {
		return Tendency{}, false
	}
	for _, name := range names {
		root, err := pitch.Parse(name)
		if err != nil {
			continue
		}
		third := majorThird.TransposePitch(root, -1).Name()
		fifth := perfectFifth.TransposePitch(root, -1).Name()
		seventh := minorSeventh.TransposePitch(root, -1).Name()
		if set[third] && set[fifth] && set[seventh] {
			return Tendency{LeadingTone: third, Seventh: seventh}, true
		}
	}
	return Tendency{}, false
}

// TendencyTonesResolve reports whether each upper part on a tendency tone in
// a rises (leading tone) or falls (seventh) by step into b. A part may hold
// its pitch, and a tone that b still sounds in any part is free.
func TendencyTonesResolve(a, b Possibility, t Tendency) bool {
	sounding := make(map[string]bool, len(b))
	for _, p := range b {
		sounding[p.Name()] = true
	}
	for i := 0; i < len(a)-1; i++ {
		from, to := a[i], b[i]
		if from.Equal(to) || sounding[from.Name()] {
			continue
		}
		iv := pitch.Between(from, to)
		switch from.Name() {
		case t.LeadingTone:
			if !isStep(iv, 1) {
				return false
			}
		case t.Seventh:
			if !isStep(iv, -1) {
				return false
			}
		}
	}
	return true
}

// isStep reports whether iv is a minor or major second in direction dir.
func isStep(iv pitch.Interval, dir int) bool {
	semis := iv.Semitones * dir
	return iv.Steps == dir && semis >= 1 && semis <= 2
}
