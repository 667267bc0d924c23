package pitch

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		ps       int
		implicit bool
	}{
		{"c4", "C", 60, false},
		{"C#", "C#", 61, true},
		{"b-4", "B-", 70, false},
		{"e--3", "E--", 50, false},
		{"Fn5", "F", 77, false},
		{"g##2", "G##", 45, false},
		{"a0", "A", 21, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			require.NoError(t, err)

			assert := assert.New(t)
			assert.Equal(tt.name, p.Name())
			assert.Equal(tt.ps, p.PS())
			assert.Equal(tt.implicit, p.ImplicitOctave)
		})
	}
}

func TestParseRejectsBadSpellings(t *testing.T) {
	for _, in := range []string{"", "h4", "c#-4", "cn#", "4", "c4x"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.True(t, errors.Is(err, ErrBadPitch))
		})
	}
}

func TestFromMIDISpellsWithSharps(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C#4", FromMIDI(61).String())
	assert.Equal("B3", FromMIDI(59).String())
	assert.Equal("C-1", FromMIDI(0).String())
	assert.Equal(61, FromMIDI(61).PS())
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		from, interval, want string
	}{
		{"c4", "M3", "E4"},
		{"d4", "m3", "F4"},
		{"b3", "M2", "C#4"},
		{"e-4", "P5", "B-4"},
		{"c5", "-P8", "C4"},
		{"f#4", "-m2", "E#4"},
		{"c4", "P12", "G5"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"+"+tt.interval, func(t *testing.T) {
			got := MustParse(tt.from).Transpose(MustParseInterval(tt.interval))
			assert.Equal(t, tt.want, got.NameWithOctave())
		})
	}
}

func TestTransposeRespellsBeyondMaxAccidental(t *testing.T) {
	assert := assert.New(t)
	aug2 := MustParseInterval("A2")

	assert.Equal("E##4", aug2.TransposePitch(MustParse("d#4"), -1).String())
	assert.Equal("F#4", aug2.TransposePitch(MustParse("d#4"), 1).String())
	assert.Equal("E#4", aug2.TransposePitch(MustParse("d4"), 1).String())
}

func TestSimplify(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C4", MustParse("b#3").Simplify(0).String())
	assert.Equal("B#3", MustParse("b#3").Simplify(1).String())
	assert.Equal("D4", MustParse("e--4").Simplify(1).String())
	assert.Equal("E--4", MustParse("e--4").Simplify(-1).String())
}

func TestTransposeSemitones(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("B-5", MustParse("b-4").TransposeSemitones(12).String())
	assert.Equal("C#4", MustParse("c4").TransposeSemitones(1).String())
	assert.Equal("B-2", MustParse("b-4").TransposeSemitones(-24).String())
}

func TestComparison(t *testing.T) {
	assert := assert.New(t)
	a, b := MustParse("c#4"), MustParse("d-5")
	assert.True(ComparePitchClass.Same(a, b))
	assert.False(ComparePS.Same(a, b))
	assert.False(CompareName.Same(a, b))
	assert.True(CompareName.Same(a, MustParse("c#2")))
	assert.True(ComparePS.Same(a, MustParse("d-4")))
}
