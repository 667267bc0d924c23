package cmd

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jsphweid/harmonet/figure"
	"github.com/jsphweid/harmonet/model"
	"github.com/jsphweid/harmonet/network"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/realizer"
	"github.com/jsphweid/harmonet/rules"
	"github.com/jsphweid/harmonet/scale"
	"github.com/jsphweid/harmonet/segment"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrBadRequest = errors.New("bad request")

var validate = validator.New()

func checkBody(body any) error {
	if err := validate.Struct(body); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// realizeOptions turns optional bound and direction strings into realize
// options.
func realizeOptions(min, max, direction string) ([]network.RealizeOption, error) {
	var opts []network.RealizeOption
	if min != "" {
		p, err := pitch.Parse(min)
		if err != nil {
			return nil, err
		}
		opts = append(opts, network.Min(p))
	}
	if max != "" {
		p, err := pitch.Parse(max)
		if err != nil {
			return nil, err
		}
		opts = append(opts, network.Max(p))
	}
	dir, err := network.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	return append(opts, network.InDirection(dir)), nil
}

func realizeNetwork(net *network.Network, body model.RealizeRequestBody) (model.RealizeResponse, error) {
	tonic, err := pitch.Parse(body.Tonic)
	if err != nil {
		return model.RealizeResponse{}, err
	}
	opts, err := realizeOptions(body.Min, body.Max, body.Direction)
	if err != nil {
		return model.RealizeResponse{}, err
	}
	pitches, ids, err := net.Realize(tonic, orDefault(body.Node, "1"), opts...)
	if err != nil {
		return model.RealizeResponse{}, err
	}

	res := model.RealizeResponse{Pitches: []string{}, NodeIDs: []string{}}
	for i, p := range pitches {
		res.Pitches = append(res.Pitches, p.String())
		res.NodeIDs = append(res.NodeIDs, ids[i].String())
	}
	return res, nil
}

func realizeRequest(body model.RealizeRequestBody) (model.RealizeResponse, error) {
	if err := checkBody(body); err != nil {
		return model.RealizeResponse{}, err
	}
	a, err := scale.Named(orDefault(body.Scale, "major"))
	if err != nil {
		return model.RealizeResponse{}, err
	}
	return realizeNetwork(a.Network, body)
}

func findRequest(body model.FindRequestBody) (model.FindResponse, error) {
	if err := checkBody(body); err != nil {
		return model.FindResponse{}, err
	}
	pitches, err := pitch.ParseAll(body.Pitches)
	if err != nil {
		return model.FindResponse{}, err
	}
	a, err := scale.Named(orDefault(body.Scale, "major"))
	if err != nil {
		return model.FindResponse{}, err
	}
	n := body.Results
	if n == 0 {
		n = 4
	}
	matches, err := a.Find(pitches, n)
	if err != nil {
		return model.FindResponse{}, err
	}

	res := model.FindResponse{Results: []model.FindResult{}}
	for _, m := range matches {
		res.Results = append(res.Results, model.FindResult{Key: m.Scale.Name(), Count: m.Count})
	}
	return res, nil
}

// figuredLine parses the key and line of a figured bass request.
func figuredLine(body model.FiguredRequestBody) (*realizer.Line, error) {
	s, err := figure.NewScale(body.Key, orDefault(body.Mode, "major"))
	if err != nil {
		return nil, err
	}
	var opts []realizer.LineOption
	if body.NumParts != 0 {
		opts = append(opts, realizer.WithNumParts(body.NumParts))
	}
	if body.MaxPitch != "" {
		p, err := pitch.Parse(body.MaxPitch)
		if err != nil {
			return nil, err
		}
		opts = append(opts, realizer.WithMaxPitch(p))
	}
	return realizer.ParseLine(s, body.Line, opts...)
}

type figuredResult struct {
	response     model.FiguredResponse
	realization  *realizer.Realization
	progressions []realizer.Progression
}

// realizeFigured realizes the line of a figured bass request without
// drawing any progressions.
func realizeFigured(ctx context.Context, body model.FiguredRequestBody, r *rules.Rules) (figuredResult, error) {
	if err := checkBody(body); err != nil {
		return figuredResult{}, err
	}
	line, err := figuredLine(body)
	if err != nil {
		return figuredResult{}, err
	}
	realization, err := line.Realize(ctx, realizer.WithRules(r), realizer.WithLogger(logger))
	if err != nil {
		return figuredResult{}, err
	}

	res := figuredResult{
		response: model.FiguredResponse{
			ID:           uuid.New().String(),
			NumSolutions: realization.NumSolutions().String(),
			Progressions: [][]string{},
		},
		realization: realization,
	}
	logger.Info("realized figured bass",
		zap.String("id", res.response.ID),
		zap.String("key", line.Scale.String()),
		zap.String("line", line.String()),
		zap.String("solutions", res.response.NumSolutions),
	)
	return res, nil
}

// figuredRequest realizes the line and draws Count progressions, one when
// Count is zero.
func figuredRequest(ctx context.Context, body model.FiguredRequestBody, r *rules.Rules) (figuredResult, error) {
	res, err := realizeFigured(ctx, body, r)
	if err != nil {
		return figuredResult{}, err
	}

	seed := body.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	count := body.Count
	if count == 0 {
		count = 1
	}
	rng := rand.New(rand.NewSource(seed))

	res.progressions = res.realization.RandomProgressions(rng, count, body.Uniform)
	for _, p := range res.progressions {
		res.response.Progressions = append(res.response.Progressions, p.Keys())
	}
	return res, nil
}

// isBadInput reports whether err comes from the caller's input rather than
// from the server.
func isBadInput(err error) bool {
	for _, target := range []error{
		ErrBadRequest,
		pitch.ErrBadPitch,
		pitch.ErrBadInterval,
		figure.ErrBadNotation,
		figure.ErrUnsupportedMode,
		scale.ErrUnknownScale,
		network.ErrUnknownNode,
		network.ErrInvalidDirection,
		realizer.ErrEmptyLine,
		segment.ErrTooFewParts,
		rules.ErrInvalidRules,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
