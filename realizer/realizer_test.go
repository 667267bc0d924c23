package realizer

import (
	"context"
	"math/rand"
	"testing"

	"github.com/jsphweid/harmonet/figure"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/rules"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func bMajor(t *testing.T) *figure.Scale {
	t.Helper()
	s, err := figure.NewScale("B", "major")
	require.NoError(t, err)
	return s
}

func realize(t *testing.T, line string, opts ...Option) *Realization {
	t.Helper()
	l, err := ParseLine(bMajor(t), line)
	require.NoError(t, err)
	r, err := l.Realize(context.Background(), opts...)
	require.NoError(t, err)
	return r
}

func assertLegal(t *testing.T, r *Realization, p Progression) {
	t.Helper()
	segs := r.Segments()
	require.Len(t, p, len(segs))
	for i := 0; i < len(p)-1; i++ {
		assert.True(t, segs[i].IsCorrectConsecutive(p[i], p[i+1]), "%s -> %s", p[i], p[i+1])
	}
	for i, possib := range p {
		assert.True(t, possib.Bass().Equal(segs[i].Bass))
	}
}

func TestNumSolutions(t *testing.T) {
	r := realize(t, "B2 C#3:6 D#3:6")
	assert.Equal(t, "208", r.NumSolutions().String())

	relaxed := rules.Default()
	relaxed.ForbidVoiceOverlap = false
	r = realize(t, "B2 C#3:6 D#3:6", WithRules(relaxed))
	assert.Equal(t, "7908", r.NumSolutions().String())
}

func TestShortLines(t *testing.T) {
	assert.Equal(t, "22", realize(t, "B2").NumSolutions().String())
	assert.Equal(t, "64", realize(t, "C#3:6 D#3:6").NumSolutions().String())
}

func TestEnumerationMatchesCount(t *testing.T) {
	r := realize(t, "B2 C#3:6 D#3:6")
	all := r.Collect(-1)
	assert.Len(t, all, 208)

	seen := make(map[string]bool)
	for _, p := range all {
		assertLegal(t, r, p)
		key := ""
		for _, k := range p.Keys() {
			key += k + "|"
		}
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}

	assert.Len(t, r.Collect(5), 5)
	assert.Empty(t, r.Collect(0))
}

func TestTrimmedTablesAreClosed(t *testing.T) {
	r := realize(t, "B2 C#3:6 D#3:6 E3:4,2 D#3:6")
	segs := r.Segments()
	for i := 0; i < len(segs)-2; i++ {
		next := segs[i+1].Movements()
		for _, from := range segs[i].Movements().Froms() {
			to, _ := segs[i].Movements().Get(from)
			assert.NotEmpty(t, to)
			for _, b := range to {
				assert.True(t, next.Has(b.Key()))
			}
		}
	}
	assert.Equal(t, "1168", r.NumSolutions().String())
	assert.Equal(t, r.NumSolutions().Int64(), int64(len(r.Collect(-1))))
}

func TestDominantSeventhResolves(t *testing.T) {
	free := rules.Default()
	free.ResolveTendencyTones = false

	assert.Equal(t, "20", realize(t, "E3:4,2 D#3:6").NumSolutions().String())
	assert.Equal(t, "30", realize(t, "E3:4,2 D#3:6", WithRules(free)).NumSolutions().String())
	assert.Equal(t, "1761", realize(t, "B2 C#3:6 D#3:6 E3:4,2 D#3:6", WithRules(free)).NumSolutions().String())

	r := realize(t, "E3:4,2 D#3:6")
	for p := range r.AllProgressions() {
		assertLegal(t, r, p)
	}
}

func TestRandomProgressions(t *testing.T) {
	r := realize(t, "B2 C#3:6 D#3:6")
	rng := rand.New(rand.NewSource(7))

	p, ok := r.RandomProgression(rng)
	require.True(t, ok)
	assertLegal(t, r, p)

	p, ok = r.UniformRandomProgression(rng)
	require.True(t, ok)
	assertLegal(t, r, p)

	for _, uniform := range []bool{false, true} {
		progs := r.RandomProgressions(rng, 20, uniform)
		assert.Len(t, progs, 20)
		for _, p := range progs {
			assertLegal(t, r, p)
		}
	}
}

func TestUniformSamplerCoversSolutions(t *testing.T) {
	r := realize(t, "C#3:6 D#3:6")
	rng := rand.New(rand.NewSource(1))
	seen := make(map[string]bool)
	for range 3000 {
		p, ok := r.UniformRandomProgression(rng)
		require.True(t, ok)
		seen[p[0].Key()+p[1].Key()] = true
	}
	assert.Len(t, seen, 64)
}

func TestVoices(t *testing.T) {
	r := realize(t, "B2 C#3:6 D#3:6")
	p := r.Collect(1)[0]
	voices := p.Voices()
	require.Len(t, voices, 4)
	for _, v := range voices {
		assert.Len(t, v, 3)
	}
	var bass []string
	for _, b := range voices[3] {
		bass = append(bass, b.String())
	}
	assert.Equal(t, []string{"B2", "C#3", "D#3"}, bass)
	assert.Nil(t, Progression{}.Voices())
}

func TestNoSolution(t *testing.T) {
	s, err := figure.NewScale("C", "major")
	require.NoError(t, err)
	l, err := ParseLine(s, "C3 D3", WithNumParts(2))
	require.NoError(t, err)
	r, err := l.Realize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0", r.NumSolutions().String())
	_, ok := r.RandomProgression(rand.New(rand.NewSource(1)))
	assert.False(t, ok)
	_, ok = r.UniformRandomProgression(rand.New(rand.NewSource(1)))
	assert.False(t, ok)
	assert.Empty(t, r.Collect(-1))
	assert.Empty(t, r.RandomProgressions(rand.New(rand.NewSource(1)), 3, false))
}

func TestParseLine(t *testing.T) {
	l, err := ParseLine(bMajor(t), "B2 C#3:6 D#3:6,5", WithMaxPitch(pitch.MustParse("a5")))
	require.NoError(t, err)
	assert.Equal(t, "B2 C#3:6 D#3:6,5", l.String())
	assert.Equal(t, []int{6, 5, 3}, l.Events[2].Notation.Numbers())
	assert.Equal(t, "A5", l.MaxPitch.String())

	_, err = ParseLine(bMajor(t), "   ")
	assert.True(t, errors.Is(err, ErrEmptyLine))

	_, err = ParseLine(bMajor(t), "B2 H3")
	assert.True(t, errors.Is(err, pitch.ErrBadPitch))

	_, err = ParseLine(bMajor(t), "B2 C#3:6,x")
	assert.True(t, errors.Is(err, figure.ErrBadNotation))
}

func TestRealizeErrors(t *testing.T) {
	_, err := NewLine(bMajor(t)).Realize(context.Background())
	assert.True(t, errors.Is(err, ErrEmptyLine))

	l := NewLine(nil)
	require.NoError(t, l.Add(pitch.MustParse("c3"), ""))
	_, err = l.Realize(context.Background())
	assert.True(t, errors.Is(err, ErrNoKey))

	l, err = ParseLine(bMajor(t), "B2 C#3:6 D#3:6")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Realize(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRealizeLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	realize(t, "B2 C#3:6", WithLogger(zap.New(core)))

	entries := logs.FilterMessage("realized line").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["segments"])
}
