package chord

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/harmonet/model"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

type reducedEvent struct {
	offset    int64 // microseconds
	isNoteOff bool
	note      uint8
}

// Key names a set of MIDI notes, lowest first, e.g. "60-64-67".
func Key(notes []uint8) string {
	sorted := append([]uint8(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	parts := make([]string, 0, len(sorted))
	for _, n := range sorted {
		parts = append(parts, strconv.Itoa(int(n)))
	}
	return strings.Join(parts, "-")
}

func getChord(offset int64, pressed map[uint8]bool) model.Chord {
	notes := util.GetKeys(pressed)
	// millis are accurate enough and fit 1200 hours in 32 bits
	return model.Chord{Offset: uint32(offset / 1000), Notes: notes}
}

// FromSMF lists the sets of sounding notes in the file, in time order. A new
// chord starts whenever a note starts or stops.
func FromSMF(s *smf.SMF) []model.Chord {
	var events []reducedEvent
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				events = append(events, reducedEvent{
					offset:    s.TimeAt(absTicks),
					isNoteOff: velocity == 0,
					note:      key,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, reducedEvent{
					offset:    s.TimeAt(absTicks),
					isNoteOff: true,
					note:      key,
				})
			}
		}
	}

	// earlier first, then note offs
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].offset != events[j].offset {
			return events[i].offset < events[j].offset
		}
		return events[i].isNoteOff && !events[j].isNoteOff
	})

	var offsets []int64
	byOffset := make(map[int64]model.Chord)
	pressed := make(map[uint8]bool)
	for _, evt := range events {
		if evt.isNoteOff {
			delete(pressed, evt.note)
		} else {
			pressed[evt.note] = true
		}
		if _, seen := byOffset[evt.offset]; !seen {
			offsets = append(offsets, evt.offset)
		}
		byOffset[evt.offset] = getChord(evt.offset, pressed)
	}

	var chords []model.Chord
	for _, offset := range offsets {
		if c := byOffset[offset]; len(c.Notes) > 0 {
			chords = append(chords, c)
		}
	}
	return chords
}

// Pitches spells the chord's notes with sharps, lowest first.
func Pitches(c model.Chord) []pitch.Pitch {
	res := make([]pitch.Pitch, 0, len(c.Notes))
	for _, n := range c.Notes {
		res = append(res, pitch.FromMIDI(int(n)))
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].PS() < res[j].PS()
	})
	return res
}

// PitchClasses returns one pitch per distinct pitch class across chords,
// with how many chords hold it.
func PitchClasses(chords []model.Chord) ([]pitch.Pitch, map[int]int) {
	counts := make(map[int]int)
	for _, c := range chords {
		seen := make(map[int]bool)
		for _, n := range c.Notes {
			pc := int(n) % 12
			if !seen[pc] {
				counts[pc]++
				seen[pc] = true
			}
		}
	}
	var res []pitch.Pitch
	for _, pc := range util.GetKeys(counts) {
		res = append(res, pitch.FromMIDI(60+pc))
	}
	return res, counts
}
