package scale

import (
	"testing"

	"github.com/jsphweid/harmonet/network"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namesOf(pitches []pitch.Pitch) []string {
	var res []string
	for _, p := range pitches {
		res = append(res, p.NameWithOctave())
	}
	return res
}

func TestEveryNamedScaleCoversAnOctave(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := New(pitch.MustParse("d4"), name)
			require.NoError(t, err)

			pitches, err := s.Pitches()
			require.NoError(t, err)
			assert.Equal(t, "D4", pitches[0].String())
			assert.Equal(t, 74, pitches[len(pitches)-1].PS())
			assert.Equal(t, s.Abstract.Degrees()+1, len(pitches))
		})
	}
}

func TestNamedScales(t *testing.T) {
	tests := []struct {
		tonic, name string
		want        []string
	}{
		{"c4", "major", []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"}},
		{"a3", "Aeolian", []string{"A3", "B3", "C4", "D4", "E4", "F4", "G4", "A4"}},
		{"a3", "harmonic-minor", []string{"A3", "B3", "C4", "D4", "E4", "F4", "G#4", "A4"}},
		{"d4", "dorian", []string{"D4", "E4", "F4", "G4", "A4", "B4", "C5", "D5"}},
		{"c4", "whole-tone", []string{"C4", "D4", "E4", "F#4", "G#4", "A#4", "C5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(pitch.MustParse(tt.tonic), tt.name)
			require.NoError(t, err)
			pitches, err := s.Pitches()
			require.NoError(t, err)
			assert.Equal(t, tt.want, namesOf(pitches))
		})
	}
}

func TestUnknownScale(t *testing.T) {
	_, err := Named("bebop")
	assert.True(t, errors.Is(err, ErrUnknownScale))
}

func TestPitchesInRange(t *testing.T) {
	s, err := New(pitch.MustParse("g"), "major")
	require.NoError(t, err)
	pitches, err := s.Pitches(network.Range(pitch.MustParse("e5"), pitch.MustParse("c6")))
	require.NoError(t, err)
	assert.Equal(t, []string{"E5", "F#5", "G5", "A5", "B5", "C6"}, namesOf(pitches))
}

func TestDegrees(t *testing.T) {
	s, err := New(pitch.MustParse("e-4"), "major")
	require.NoError(t, err)

	assert := assert.New(t)
	p, ok := s.PitchFromDegree(5)
	assert.True(ok)
	assert.Equal("B-4", p.String())

	p, ok = s.PitchFromDegree(9)
	assert.True(ok)
	assert.Equal("F4", p.String())

	d, ok := s.DegreeFromPitch(pitch.MustParse("a-2"))
	assert.True(ok)
	assert.Equal(4, d)

	d, ok = s.DegreeFromPitch(pitch.MustParse("e-6"))
	assert.True(ok)
	assert.Equal(1, d)

	assert.False(s.Contains(pitch.MustParse("g#4")))
	assert.True(s.Contains(pitch.MustParse("g4")))
}

func TestPitchNames(t *testing.T) {
	s, err := New(pitch.MustParse("b"), "major")
	require.NoError(t, err)
	names, err := s.PitchNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C#", "D#", "E", "F#", "G#", "A#"}, names)
	assert.Equal(t, "B major", s.Name())
}

func TestFindKey(t *testing.T) {
	major, err := Named("major")
	require.NoError(t, err)

	res, err := major.Find(pitch.MustParseAll([]string{"g", "a", "b", "d", "f#"}), 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "G major", res[0].Scale.Name())
	assert.Equal(t, 5, res[0].Count)
	assert.Equal(t, "D major", res[1].Scale.Name())
}
