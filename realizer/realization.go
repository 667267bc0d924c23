package realizer

import (
	"iter"
	"math/big"
	"math/rand"
	"sync"

	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/possibility"
	"github.com/jsphweid/harmonet/segment"
	"go.uber.org/zap"
)

// Progression is one possibility per event, first event first.
type Progression []possibility.Possibility

// Voices regroups the progression into one pitch sequence per part, highest
// part first.
func (p Progression) Voices() [][]pitch.Pitch {
	if len(p) == 0 {
		return nil
	}
	res := make([][]pitch.Pitch, len(p[0]))
	for _, possib := range p {
		for part, v := range possib {
			res[part] = append(res[part], v)
		}
	}
	return res
}

func (p Progression) Keys() []string {
	res := make([]string, 0, len(p))
	for _, possib := range p {
		res = append(res, possib.Key())
	}
	return res
}

// Realization holds the trimmed movement tables of a line. It is safe for
// concurrent reads.
type Realization struct {
	segments []*segment.Segment
	logger   *zap.Logger

	countsOnce sync.Once
	counts     []map[string]*big.Int // completions from each possibility, per segment
	total      *big.Int
}

func (r *Realization) Segments() []*segment.Segment {
	return r.segments
}

// NumSolutions is the number of complete progressions.
func (r *Realization) NumSolutions() *big.Int {
	r.countCompletions()
	return new(big.Int).Set(r.total)
}

func (r *Realization) countCompletions() {
	r.countsOnce.Do(func() {
		n := len(r.segments)
		r.counts = make([]map[string]*big.Int, n)
		r.total = new(big.Int)

		last := make(map[string]*big.Int)
		for _, p := range r.segments[n-1].AllCorrectSinglePossibilities() {
			last[p.Key()] = big.NewInt(1)
		}
		r.counts[n-1] = last
		if n == 1 {
			r.total.SetInt64(int64(len(last)))
			return
		}

		for i := n - 2; i >= 0; i-- {
			next := r.counts[i+1]
			cur := make(map[string]*big.Int)
			r.segments[i].Movements().Each(func(from possibility.Possibility, to []possibility.Possibility) {
				sum := new(big.Int)
				for _, b := range to {
					if c, ok := next[b.Key()]; ok {
						sum.Add(sum, c)
					}
				}
				cur[from.Key()] = sum
			})
			r.counts[i] = cur
		}
		for _, c := range r.counts[0] {
			r.total.Add(r.total, c)
		}
	})
}

func (r *Realization) starts() []possibility.Possibility {
	if len(r.segments) == 1 {
		return r.segments[0].AllCorrectSinglePossibilities()
	}
	return r.segments[0].Movements().Froms()
}

func (r *Realization) next(i int, from possibility.Possibility) []possibility.Possibility {
	to, _ := r.segments[i].Movements().Get(from)
	return to
}

// RandomProgression walks the line choosing uniformly among the legal
// continuations at each step. Progressions through sparser regions of the
// line come up more often than those through denser ones; use
// UniformRandomProgression for an unbiased draw. ok is false when the line
// has no solution.
func (r *Realization) RandomProgression(rng *rand.Rand) (Progression, bool) {
	starts := r.starts()
	if len(starts) == 0 {
		return nil, false
	}
	cur := starts[rng.Intn(len(starts))]
	prog := Progression{cur}
	for i := 0; i < len(r.segments)-1; i++ {
		to := r.next(i, cur)
		if len(to) == 0 {
			return nil, false
		}
		cur = to[rng.Intn(len(to))]
		prog = append(prog, cur)
	}
	return prog, true
}

// UniformRandomProgression draws each complete progression with equal
// probability by weighting every choice by its number of completions.
func (r *Realization) UniformRandomProgression(rng *rand.Rand) (Progression, bool) {
	r.countCompletions()
	cur, ok := weightedPick(rng, r.starts(), r.counts[0])
	if !ok {
		return nil, false
	}
	prog := Progression{cur}
	for i := 0; i < len(r.segments)-1; i++ {
		cur, ok = weightedPick(rng, r.next(i, cur), r.counts[i+1])
		if !ok {
			return nil, false
		}
		prog = append(prog, cur)
	}
	return prog, true
}

func weightedPick(rng *rand.Rand, choices []possibility.Possibility, weights map[string]*big.Int) (possibility.Possibility, bool) {
	total := new(big.Int)
	for _, c := range choices {
		if w, ok := weights[c.Key()]; ok {
			total.Add(total, w)
		}
	}
	if total.Sign() == 0 {
		return nil, false
	}
	target := new(big.Int).Rand(rng, total)
	for _, c := range choices {
		w, ok := weights[c.Key()]
		if !ok {
			continue
		}
		if target.Cmp(w) < 0 {
			return c, true
		}
		target.Sub(target, w)
	}
	return nil, false
}

// RandomProgressions draws n progressions, uniformly over complete
// progressions when uniform is set.
func (r *Realization) RandomProgressions(rng *rand.Rand, n int, uniform bool) []Progression {
	var res []Progression
	for range n {
		var (
			p  Progression
			ok bool
		)
		if uniform {
			p, ok = r.UniformRandomProgression(rng)
		} else {
			p, ok = r.RandomProgression(rng)
		}
		if !ok {
			break
		}
		res = append(res, p)
	}
	return res
}

// AllProgressions yields every complete progression lazily, in table order.
// Stop ranging to bound the work.
func (r *Realization) AllProgressions() iter.Seq[Progression] {
	return func(yield func(Progression) bool) {
		if total := r.NumSolutions(); total.Cmp(big.NewInt(constants.EnumerationWarnThreshold)) > 0 {
			r.logger.Warn("enumerating a large realization",
				zap.String("solutions", total.String()),
				zap.Int("threshold", constants.EnumerationWarnThreshold),
			)
		}

		prog := make(Progression, len(r.segments))
		var walk func(i int, options []possibility.Possibility) bool
		walk = func(i int, options []possibility.Possibility) bool {
			for _, p := range options {
				prog[i] = p
				if i == len(r.segments)-1 {
					if !yield(append(Progression(nil), prog...)) {
						return false
					}
					continue
				}
				if !walk(i+1, r.next(i, p)) {
					return false
				}
			}
			return true
		}
		walk(0, r.starts())
	}
}

// Collect gathers up to limit progressions, or all of them when limit is
// negative.
func (r *Realization) Collect(limit int) []Progression {
	var res []Progression
	if limit == 0 {
		return res
	}
	for p := range r.AllProgressions() {
		res = append(res, p)
		if limit > 0 && len(res) >= limit {
			break
		}
	}
	return res
}
