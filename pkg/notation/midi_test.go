package notation

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/rain1024/musiz/pkg/score"
)

func TestMidiKey(t *testing.T) {
	tests := []struct {
		name   string
		note   score.Note
		want   uint8
		wantOK bool
	}{
		{"middle C", score.Note{Step: "C", Octave: score.IntPtr(4)}, 60, true},
		{"A4", score.Note{Step: "A", Octave: score.IntPtr(4)}, 69, true},
		{"C-1 bottom of range", score.Note{Step: "C", Octave: score.IntPtr(-1)}, 0, true},
		{"G9 top of range", score.Note{Step: "G", Octave: score.IntPtr(9)}, 127, true},
		{"A9 out of range", score.Note{Step: "A", Octave: score.IntPtr(9)}, 0, false},
		{"no octave defaults to 4", score.Note{Step: "D"}, 62, true},
		{"rest", score.Note{IsRest: true}, 0, false},
		{"unpitched", score.Note{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := midiKey(tt.note)
			if ok != tt.wantOK {
				t.Fatalf("midiKey() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("midiKey() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNoteTicks(t *testing.T) {
	tests := []struct {
		divisions int
		want      uint32
	}{
		{2, 480},  // quarter
		{1, 240},  // eighth
		{8, 1920}, // whole
		{0, 0},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := noteTicks(tt.divisions); got != tt.want {
			t.Errorf("noteTicks(%d) = %d, want %d", tt.divisions, got, tt.want)
		}
	}
}

func TestGenerateSMF(t *testing.T) {
	tempo := 90
	s := &score.Score{Tempo: &tempo}
	part := score.Part{PartID: "P1"}
	measure := score.Measure{Number: 1}
	measure.AddNote(score.Note{Step: "C", Octave: score.IntPtr(4), Duration: 2})
	measure.AddNote(score.Note{IsRest: true, Duration: 2})
	measure.AddNote(score.Note{Step: "E", Octave: score.IntPtr(4), Duration: 2})
	part.AddMeasure(measure)
	s.AddPart(part)

	data, err := GenerateSMF(s)
	if err != nil {
		t.Fatalf("GenerateSMF() error: %v", err)
	}

	if len(data) < 4 || string(data[:4]) != "MThd" {
		t.Fatal("output does not start with an SMF header")
	}

	doc, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated SMF does not parse back: %v", err)
	}
	if len(doc.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(doc.Tracks))
	}

	var noteOns int
	var lastDelta uint32
	for _, ev := range doc.Tracks[0] {
		msg := ev.Message
		if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
			noteOns++
			lastDelta = ev.Delta
		}
	}
	if noteOns != 2 {
		t.Errorf("note-on events = %d, want 2", noteOns)
	}
	// The rest between the two notes shows up as the second note-on's
	// delta: one quarter of silence after the first note-off.
	if lastDelta != 480 {
		t.Errorf("second note-on delta = %d, want 480", lastDelta)
	}
}

func TestGenerateSMFEmptyScore(t *testing.T) {
	data, err := GenerateSMF(&score.Score{})
	if err != nil {
		t.Fatalf("GenerateSMF() error: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "MThd" {
		t.Error("empty score should still produce a valid SMF header")
	}
}

func TestGenerateSMFNilScore(t *testing.T) {
	if _, err := GenerateSMF(nil); err == nil {
		t.Error("expected error for nil score")
	}
}

func TestGenerateSMFOnePartPerTrack(t *testing.T) {
	s := &score.Score{}
	for _, id := range []string{"P1", "P2"} {
		part := score.Part{PartID: id}
		measure := score.Measure{Number: 1}
		measure.AddNote(score.Note{Step: "C", Octave: score.IntPtr(4), Duration: 2})
		part.AddMeasure(measure)
		s.AddPart(part)
	}

	data, err := GenerateSMF(s)
	if err != nil {
		t.Fatalf("GenerateSMF() error: %v", err)
	}

	doc, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated SMF does not parse back: %v", err)
	}
	if len(doc.Tracks) != 2 {
		t.Errorf("tracks = %d, want 2", len(doc.Tracks))
	}
}
