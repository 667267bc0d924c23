package pitch

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in        string
		steps     int
		semitones int
	}{
		{"P1", 0, 0},
		{"M2", 1, 2},
		{"m2", 1, 1},
		{"d2", 1, 0},
		{"A2", 1, 3},
		{"m3", 2, 3},
		{"AA4", 3, 7},
		{"d5", 4, 6},
		{"P8", 7, 12},
		{"m10", 9, 15},
		{"P12", 11, 19},
		{"-m3", -2, -3},
		{"+P4", 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			iv, err := ParseInterval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, Interval{Steps: tt.steps, Semitones: tt.semitones}, iv)
		})
	}
}

func TestParseIntervalRejectsBadNames(t *testing.T) {
	for _, in := range []string{"P2", "M5", "m8", "x3", "M0", "3", ""} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseInterval(in)
			assert.True(t, errors.Is(err, ErrBadInterval))
		})
	}
}

func TestIntervalNamesRoundTrip(t *testing.T) {
	for _, name := range []string{"P1", "M2", "m3", "AA4", "d5", "M6", "m7", "P8", "m10", "P12", "A1"} {
		assert.Equal(t, name, MustParseInterval(name).Name())
	}
	assert.Equal(t, "-m3", MustParseInterval("-m3").DirectedName())
}

func TestIntervalSimpleNames(t *testing.T) {
	assert := assert.New(t)
	c4, c5, g5 := MustParse("c4"), MustParse("c5"), MustParse("g5")

	assert.Equal("P12", Between(c4, g5).Name())
	assert.Equal("P5", Between(c4, g5).SimpleName())
	assert.Equal("P1", Between(c4, c5).SimpleName())
	assert.Equal("P8", Between(c4, c5).SemiSimpleName())
	assert.Equal("P8", Between(c4, MustParse("c6")).SemiSimpleName())
	assert.Equal("P1", Between(c4, c4).SemiSimpleName())
	assert.Equal("-P5", Between(MustParse("g4"), c4).DirectedSimpleName())
	assert.Equal("-P4", Between(MustParse("f4"), c4).DirectedSimpleName())
	assert.Equal("P1", Between(c5, c4).DirectedSimpleName())
}

func TestIntervalReverse(t *testing.T) {
	iv := MustParseInterval("M3")
	assert := assert.New(t)
	assert.Equal(MustParseInterval("-M3"), iv.Reverse())
	assert.Equal(-1, iv.Reverse().Direction())
	assert.Equal(-3, iv.Reverse().Generic())
	assert.Equal("C4", iv.Reverse().TransposePitch(MustParse("e4"), -1).String())
}

func TestBetween(t *testing.T) {
	iv := Between(MustParse("b3"), MustParse("c#4"))
	assert := assert.New(t)
	assert.Equal("M2", iv.Name())
	assert.Equal(1, iv.Direction())
	assert.Equal(0, Between(MustParse("c4"), MustParse("c4")).Direction())
}
