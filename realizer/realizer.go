package realizer

import (
	"context"
	"time"

	"github.com/jsphweid/harmonet/rules"
	"github.com/jsphweid/harmonet/segment"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	rules  *rules.Rules
	logger *zap.Logger
}

type Option func(*config)

func WithRules(r *rules.Rules) Option {
	return func(c *config) {
		c.rules = r
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Realize builds a segment per event, finds the legal movements between
// each adjacent pair in parallel, then trims dead ends from the end of the
// line backwards.
func (l *Line) Realize(ctx context.Context, opts ...Option) (*Realization, error) {
	c := config{rules: rules.Default(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	if len(l.Events) == 0 {
		return nil, ErrEmptyLine
	}
	if l.Scale == nil {
		return nil, ErrNoKey
	}

	start := time.Now()
	segments := make([]*segment.Segment, 0, len(l.Events))
	for i, e := range l.Events {
		s, err := segment.New(e.Bass, e.Notation, l.Scale,
			segment.WithRules(c.rules),
			segment.WithNumParts(l.NumParts),
			segment.WithMaxPitch(l.MaxPitch),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "event %d (%s)", i, e)
		}
		segments = append(segments, s)
	}

	movements := make([]*segment.Movements, len(segments)-1)
	g, ctx := errgroup.WithContext(ctx)
	for i := range len(segments) - 1 {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := segments[i].AllCorrectConsecutivePossibilities(segments[i+1])
			if err != nil {
				return errors.Wrapf(err, "events %d and %d", i, i+1)
			}
			movements[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, m := range movements {
		segments[i].SetMovements(m)
	}
	segment.TrimAllMovements(segments)

	r := &Realization{segments: segments, logger: c.logger}
	c.logger.Debug("realized line",
		zap.String("line", l.String()),
		zap.String("key", l.Scale.String()),
		zap.Int("segments", len(segments)),
		zap.Int("possibilities", len(segments[0].AllCorrectSinglePossibilities())),
		zap.String("solutions", r.NumSolutions().String()),
		zap.Duration("took", time.Since(start)),
	)
	return r, nil
}
