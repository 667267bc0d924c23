package network

import (
	"testing"

	"github.com/jsphweid/harmonet/pitch"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeNodeID(t *testing.T) {
	n := majorNetwork(t)
	a := pitch.MustParse("a")

	id, ok, err := n.RelativeNodeID(a, 1, pitch.MustParse("a4"), pitch.ComparePS, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TerminusLow, id)

	_, ok, err = n.RelativeNodeID(a, 1, pitch.MustParse("b-4"), pitch.ComparePS, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	id, ok, err = n.RelativeNodeID(a, 1, pitch.MustParse("c#5"), pitch.ComparePS, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, NodeID(1), id)

	step, ok, err := n.RelativeNodeStep(a, 1, pitch.MustParse("g#2"), pitch.ComparePitchClass, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, step)
}

func TestRelativeNodeIDUnknownNode(t *testing.T) {
	n := majorNetwork(t)
	_, _, err := n.RelativeNodeID(pitch.MustParse("a"), "middle", pitch.MustParse("a4"), pitch.ComparePS, nil)
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestNeighborNodeIDs(t *testing.T) {
	n := majorNetwork(t)
	got, ok, err := n.NeighborNodeIDs(pitch.MustParse("c4"), 1, pitch.MustParse("c#4"), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Neighbors{Lower: TerminusLow, Upper: 0}, got)

	got, ok, err = n.NeighborNodeIDs(pitch.MustParse("c4"), 1, pitch.MustParse("e4"), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Neighbors{Lower: 0, Upper: 2}, got)
}

func TestMatch(t *testing.T) {
	n := majorNetwork(t)
	targets := pitch.MustParseAll([]string{"g", "a", "b", "d", "f#"})
	matched, unmatched, err := n.Match(pitch.MustParse("c"), 1, targets, pitch.ComparePitchClass, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "A", "B", "D"}, pitchNames(matched))
	assert.Equal(t, []string{"F#"}, pitchNames(unmatched))
}

func TestFindBestTonics(t *testing.T) {
	n := majorNetwork(t)
	targets := pitch.MustParseAll([]string{"g", "a", "b", "d", "f#"})
	res, err := n.Find(targets, 4, pitch.ComparePitchClass, nil)
	require.NoError(t, err)

	require.Len(t, res, 4)
	var got []string
	var counts []int
	for _, c := range res {
		got = append(got, c.Tonic.Name())
		counts = append(counts, c.Count)
	}
	assert.Equal(t, []string{"G", "D", "A", "C"}, got)
	assert.Equal(t, []int{5, 5, 4, 4}, counts)
}

func TestFindReturnsEveryCandidate(t *testing.T) {
	n := majorNetwork(t)
	res, err := n.Find(pitch.MustParseAll([]string{"c"}), -1, pitch.ComparePitchClass, nil)
	require.NoError(t, err)
	assert.Len(t, res, 15)
}

func TestAlteredNodes(t *testing.T) {
	n := majorNetwork(t)
	flat := pitch.MustParseInterval("-A1")
	c4, c5 := pitch.MustParse("c4"), pitch.MustParse("c5")

	down, err := n.RealizePitches(c5, "high", Range(c4, c5),
		WithAlteredNodes(AlteredNodes{7: {Direction: Descending, Interval: flat}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "D4", "E4", "F4", "G4", "A4", "B-4", "C5"}, names(down))

	up, err := n.RealizePitches(c4, 1,
		WithAlteredNodes(AlteredNodes{7: {Direction: Descending, Interval: flat}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"}, names(up))

	both, err := n.RealizePitches(c4, 1,
		WithAlteredNodes(AlteredNodes{7: {Direction: Bi, Interval: flat}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "D4", "E4", "F4", "G4", "A4", "B-4", "C5"}, names(both))

	// step 1 also covers the high terminus
	sharpTonic, err := n.RealizePitches(c4, 1,
		WithAlteredNodes(AlteredNodes{1: {Direction: Bi, Interval: pitch.MustParseInterval("A1")}}))
	require.NoError(t, err)
	assert.Equal(t, "C#4", sharpTonic[0].String())
	assert.Equal(t, "C#5", sharpTonic[7].String())
}

func TestAlterLeavesOtherStepsAlone(t *testing.T) {
	n := majorNetwork(t)
	altered := AlteredNodes{7: {Direction: Bi, Interval: pitch.MustParseInterval("-A1")}}
	for _, node := range n.Nodes() {
		p := pitch.MustParse("e4")
		got := n.alter(altered, node, p, Ascending)
		if node.Step == 7 {
			assert.Equal(t, "E-4", got.String())
		} else {
			assert.Equal(t, p, got)
		}
	}
	assert.Equal(t, pitch.MustParse("e4"), n.alter(nil, n.Node(5), pitch.MustParse("e4"), Ascending))
}

func TestRealizeTerminiAndMinMax(t *testing.T) {
	n := majorNetwork(t)
	low, high, err := n.RealizeTermini(pitch.MustParse("c#"), 7, Range(pitch.MustParse("c1"), pitch.MustParse("c7")))
	require.NoError(t, err)
	assert.Equal(t, "D3", low.String())
	assert.Equal(t, "D4", high.String())

	min, max, err := n.RealizeMinMax(pitch.MustParse("c4"), 1,
		WithAlteredNodes(AlteredNodes{1: {Direction: Bi, Interval: pitch.MustParseInterval("-M2")}}))
	require.NoError(t, err)
	assert.Equal(t, "B-3", min.String())
	assert.Equal(t, "B4", max.String())
}

func TestPitchFromNodeStep(t *testing.T) {
	n := majorNetwork(t)
	p, ok, err := n.PitchFromNodeStep(pitch.MustParse("c4"), 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "G4", p.String())

	p, ok, err = n.PitchFromNodeStep(pitch.MustParse("c4"), 1, 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "C4", p.String())
}

func pitchNames(pitches []pitch.Pitch) []string {
	res := make([]string, 0, len(pitches))
	for _, p := range pitches {
		res = append(res, p.Name())
	}
	return res
}
