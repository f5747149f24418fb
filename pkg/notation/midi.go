package notation

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/rain1024/musiz/pkg/score"
)

// MIDI export. Scores can be rendered to a Standard MIDI File for
// playback in external tools; there is no MIDI reader, since a type-1
// file carries too little notation structure to rebuild a Score from.

const (
	ticksPerQuarter = 480
	midiVelocity    = 100
	midiChannel     = 0
)

// GenerateSMF renders a Score as a type-1 Standard MIDI File with one
// track per part. Rests advance time without emitting events; notes
// whose pitch falls outside the MIDI range are treated as rests.
func GenerateSMF(s *score.Score) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil score")
	}

	doc := smf.New()
	doc.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	tempo := defaultTempo
	if s.Tempo != nil && *s.Tempo > 0 {
		tempo = *s.Tempo
	}

	parts := s.Parts
	if len(parts) == 0 {
		// An empty score still yields a playable (silent) file.
		parts = []score.Part{{PartID: "P1"}}
	}

	for i, part := range parts {
		var track smf.Track

		if i == 0 {
			// Tempo meta event (FF 51 03, microseconds per beat).
			microsPerBeat := uint32(60000000 / tempo)
			track.Add(0, smf.Message([]byte{
				0xFF, 0x51, 0x03,
				byte(microsPerBeat >> 16),
				byte(microsPerBeat >> 8),
				byte(microsPerBeat),
			}))
			// 4/4 time signature, matching the notation writers.
			track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))
		}

		var pending uint32
		for _, measure := range part.Measures {
			for _, note := range measure.Notes {
				durTicks := noteTicks(note.Duration)

				key, ok := midiKey(note)
				if !ok {
					pending += durTicks
					continue
				}

				track.Add(pending, midi.NoteOn(midiChannel, key, midiVelocity))
				track.Add(durTicks, midi.NoteOff(midiChannel, key))
				pending = 0
			}
		}

		track.Close(0)
		if err := doc.Add(track); err != nil {
			return nil, fmt.Errorf("failed to add track for part %s: %w", part.PartID, err)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSMF writes a Score to a Standard MIDI File.
func WriteSMF(s *score.Score, path string) error {
	data, err := GenerateSMF(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

func noteTicks(divisions int) uint32 {
	if divisions <= 0 {
		return 0
	}
	return uint32(divisions) * (ticksPerQuarter / DivisionsPerQuarter)
}

// midiKey maps a pitched note to its MIDI note number (C4 = 60).
func midiKey(n score.Note) (uint8, bool) {
	if n.IsRest || n.Step == "" {
		return 0, false
	}
	offset, ok := score.SemitoneOffsets[n.Step]
	if !ok {
		return 0, false
	}
	octave := 4
	if n.Octave != nil {
		octave = *n.Octave
	}
	key := (octave+1)*12 + offset
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}
