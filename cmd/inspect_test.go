package cmd

import (
	"bytes"
	"testing"

	"github.com/jsphweid/harmonet/midi"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCountsPitchClasses(t *testing.T) {
	c, err := scale.New(pitch.MustParse("c4"), "major")
	require.NoError(t, err)
	pitches, err := c.Pitches()
	require.NoError(t, err)
	s, err := midi.FromPitches("c major", pitches)
	require.NoError(t, err)
	path, err := midi.Save(t.TempDir(), s)
	require.NoError(t, err)

	major, err := scale.Named("major")
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, inspect(&out, major, path))

	assert := assert.New(t)
	assert.Contains(out.String(), "8 chords, 7 pitch classes")
	assert.Contains(out.String(), "  C:2 D:1 E:1 F:1 G:1 A:1 B:1\n")
	assert.Contains(out.String(), "7/7\tC major")
}

func TestPitchClassSummary(t *testing.T) {
	got := pitchClassSummary(pitch.MustParseAll([]string{"c", "e", "g"}), map[int]int{0: 3, 4: 1, 7: 2})
	assert.Equal(t, "C:3 E:1 G:2", got)
}
