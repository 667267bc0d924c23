package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	velocity        = 80
	tempo           = 120
)

func ReadMidiFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	return ReadFrom(bytes.NewReader(dat))
}

func ReadFrom(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("parsing midi file: %v", r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

func key(p pitch.Pitch) (uint8, bool) {
	ps := p.PS()
	if ps < 0 || ps > 127 {
		return 0, false
	}
	return uint8(ps), true
}

func newFile() (*smf.SMF, smf.MetricTicks) {
	s := smf.New()
	ticks := smf.MetricTicks(ticksPerQuarter)
	s.TimeFormat = ticks
	return s, ticks
}

// FromPitches plays the pitches one after another as quarter notes.
func FromPitches(name string, pitches []pitch.Pitch) (*smf.SMF, error) {
	s, ticks := newFile()
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	tr.Add(0, smf.MetaTempo(tempo))

	var rest uint32
	for _, p := range pitches {
		k, ok := key(p)
		if !ok {
			rest += ticks.Ticks4th()
			continue
		}
		tr.Add(rest, midi.NoteOn(0, k, velocity))
		tr.Add(ticks.Ticks4th(), midi.NoteOff(0, k))
		rest = 0
	}
	tr.Close(rest)
	if err := s.Add(tr); err != nil {
		return nil, errors.Wrap(err, "adding track")
	}
	return s, nil
}

// FromVoices writes one track per voice, each event lasting a half note.
// Voices must have the same length.
func FromVoices(name string, voices [][]pitch.Pitch) (*smf.SMF, error) {
	s, ticks := newFile()
	for i, voice := range voices {
		if len(voice) != len(voices[0]) {
			return nil, errors.Errorf("voice %d has %d events, want %d", i+1, len(voice), len(voices[0]))
		}
		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("%s %d", name, i+1)))
		if i == 0 {
			tr.Add(0, smf.MetaTempo(tempo))
		}
		channel := uint8(util.Min(i, 15))

		var rest uint32
		for _, p := range voice {
			k, ok := key(p)
			if !ok {
				rest += ticks.Ticks4th() * 2
				continue
			}
			tr.Add(rest, midi.NoteOn(channel, k, velocity))
			tr.Add(ticks.Ticks4th()*2, midi.NoteOff(channel, k))
			rest = 0
		}
		tr.Close(rest)
		if err := s.Add(tr); err != nil {
			return nil, errors.Wrap(err, "adding track")
		}
	}
	return s, nil
}

// Save writes s into dir under a fresh random name and returns its path.
func Save(dir string, s *smf.SMF) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.New().String()+".mid")
	if err := s.WriteFile(path); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}
