package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)
	r := Default()
	assert.True(r.ForbidIncompletePossibilities)
	assert.Equal(12, *r.UpperPartsMaxSemitoneSeparation)
	assert.True(r.ForbidVoiceCrossing)
	assert.True(r.ForbidParallelFifths)
	assert.True(r.ForbidParallelOctaves)
	assert.True(r.ForbidHiddenFifths)
	assert.True(r.ForbidHiddenOctaves)
	assert.True(r.ForbidVoiceOverlap)
	assert.Empty(r.PartPitchLimits)
	assert.Empty(r.PartMovementLimits)
	assert.True(r.ResolveTendencyTones)
	assert.Empty(r.PartsToCheck)
	assert.False(r.UpperPartsRemainSame)
	assert.NoError(r.Validate(4))
}

func TestDecodeOverDefaults(t *testing.T) {
	r, err := Decode(strings.NewReader(`
forbidVoiceOverlap: false
upperPartsMaxSemitoneSeparation: null
partPitchLimits:
  - part: 1
    lowest: C4
    highest: A5
partMovementLimits:
  - part: 2
    maxSeparation: 5
resolveTendencyTones: false
partsToCheck: [1, 3]
upperPartsRemainSame: true
`))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.False(r.ForbidVoiceOverlap)
	assert.True(r.ForbidParallelFifths)
	assert.Nil(r.UpperPartsMaxSemitoneSeparation)
	require.Len(t, r.PartPitchLimits, 1)
	assert.Equal("C4", r.PartPitchLimits[0].Lowest.String())
	assert.Equal("A5", r.PartPitchLimits[0].Highest.String())
	assert.Equal(MovementLimit{Part: 2, MaxSeparation: 5}, r.PartMovementLimits[0])
	assert.False(r.ResolveTendencyTones)
	assert.Equal([]int{1, 3}, r.PartsToCheck)
	assert.True(r.UpperPartsRemainSame)
}

func TestDecodeEmpty(t *testing.T) {
	r, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"bad pitch":      "partPitchLimits: [{part: 1, lowest: x4, highest: c5}]",
		"part zero":      "partMovementLimits: [{part: 0, maxSeparation: 3}]",
		"negative":       "upperPartsMaxSemitoneSeparation: -1",
		"inverted range": "partPitchLimits: [{part: 1, lowest: c5, highest: c4}]",
		"not yaml":       "forbidVoiceOverlap: [",
		"held part zero": "partsToCheck: [0]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestValidatePartCount(t *testing.T) {
	r := Default()
	r.PartMovementLimits = []MovementLimit{{Part: 5, MaxSeparation: 2}}
	assert.NoError(t, r.Validate(0))
	assert.True(t, errors.Is(r.Validate(4), ErrInvalidRules))

	r = Default()
	r.PartsToCheck = []int{2, 5}
	assert.NoError(t, r.Validate(0))
	assert.True(t, errors.Is(r.Validate(4), ErrInvalidRules))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forbidHiddenFifths: false\n"), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.False(t, r.ForbidHiddenFifths)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	r, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestClone(t *testing.T) {
	r := Default()
	c := r.Clone()
	*c.UpperPartsMaxSemitoneSeparation = 7
	c.ForbidVoiceOverlap = false
	r.PartsToCheck = []int{1}
	c = r.Clone()
	c.PartsToCheck[0] = 2
	assert.Equal(t, []int{1}, r.PartsToCheck)
	assert.Equal(t, 12, *r.UpperPartsMaxSemitoneSeparation)
	assert.True(t, r.ForbidVoiceOverlap)
}
