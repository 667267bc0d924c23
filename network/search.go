package network

import (
	"sort"

	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
)

// RelativeNodeID finds the node target occupies when ref is assigned to the
// named node. The network is realized an octave either side of target, so
// structures whose adjacent pitches lie more than an octave apart are not
// found. A miss returns false, not an error.
func (n *Network) RelativeNodeID(ref pitch.Pitch, name any, target pitch.Pitch, cmp pitch.Comparison, altered AlteredNodes) (NodeID, bool, error) {
	pitches, ids, err := n.Realize(ref, name,
		Range(target.TransposeSemitones(-12), target.TransposeSemitones(12)),
		WithAlteredNodes(altered))
	if err != nil {
		return 0, false, err
	}
	for i, p := range pitches {
		if cmp.Same(p, target) {
			return ids[i], true, nil
		}
	}
	return 0, false, nil
}

// RelativeNodeStep is RelativeNodeID reporting the node's step.
func (n *Network) RelativeNodeStep(ref pitch.Pitch, name any, target pitch.Pitch, cmp pitch.Comparison, altered AlteredNodes) (int, bool, error) {
	id, ok, err := n.RelativeNodeID(ref, name, target, cmp, altered)
	if err != nil || !ok {
		return 0, false, err
	}
	return n.nodes[id].Step, true, nil
}

// Neighbors are the nodes realized immediately below and above a pitch.
type Neighbors struct {
	Lower NodeID
	Upper NodeID
}

// NeighborNodeIDs finds the nodes realized closest below and above target,
// which need not itself be in the network. False means target lies outside
// the searched octave on one side.
func (n *Network) NeighborNodeIDs(ref pitch.Pitch, name any, target pitch.Pitch, altered AlteredNodes) (Neighbors, bool, error) {
	pitches, ids, err := n.Realize(ref, name,
		Range(target.TransposeSemitones(-12), target.TransposeSemitones(12)),
		WithAlteredNodes(altered))
	if err != nil {
		return Neighbors{}, false, err
	}

	lower, upper := -1, -1
	for i, p := range pitches {
		if p.PS() < target.PS() {
			lower = i
		}
		if p.PS() > target.PS() && upper < 0 {
			upper = i
		}
	}
	if lower < 0 || upper < 0 {
		return Neighbors{}, false, nil
	}
	return Neighbors{Lower: ids[lower], Upper: ids[upper]}, true, nil
}

// Match realizes one cycle from ref and splits targets by whether any
// realized pitch agrees with them under cmp.
func (n *Network) Match(ref pitch.Pitch, name any, targets []pitch.Pitch, cmp pitch.Comparison, altered AlteredNodes) ([]pitch.Pitch, []pitch.Pitch, error) {
	realized, _, err := n.Realize(ref, name, WithAlteredNodes(altered))
	if err != nil {
		return nil, nil, err
	}

	var matched, unmatched []pitch.Pitch
	for _, t := range targets {
		found := false
		for _, p := range realized {
			if cmp.Same(p, t) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, t)
		} else {
			unmatched = append(unmatched, t)
		}
	}
	return matched, unmatched, nil
}

// Candidate is a tonic and how many searched pitches its realization holds.
type Candidate struct {
	Count int
	Tonic pitch.Pitch
}

// candidateTonics spell every pitch class with both sharp and flat forms
// where common.
var candidateTonics = []string{
	"c", "c#", "d-", "d", "e-", "e", "f", "f#", "g-", "g", "a-", "a", "b-", "b", "c-",
}

// Find tries each candidate tonic on the low terminus and returns the best
// fitting ones, most matches first. Equal counts fall back to the higher
// tonic and then to the later candidate; no musical judgement is applied.
func (n *Network) Find(pitches []pitch.Pitch, resultsReturned int, cmp pitch.Comparison, altered AlteredNodes) ([]Candidate, error) {
	res := make([]Candidate, 0, len(candidateTonics))
	for _, name := range candidateTonics {
		tonic := pitch.MustParse(name)
		matched, _, err := n.Match(tonic, TerminusLow, pitches, cmp, altered)
		if err != nil {
			return nil, err
		}
		res = append(res, Candidate{Count: len(matched), Tonic: tonic})
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count < res[j].Count
		}
		return res[i].Tonic.PS() < res[j].Tonic.PS()
	})
	util.Reverse(res)

	if resultsReturned >= 0 && resultsReturned < len(res) {
		res = res[:resultsReturned]
	}
	return res, nil
}
