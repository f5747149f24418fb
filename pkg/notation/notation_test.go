package notation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"tune.abc", FormatABC},
		{"tune.ABC", FormatABC},
		{"score.xml", FormatMusicXML},
		{"score.musicxml", FormatMusicXML},
		{"song.mid", FormatMIDI},
		{"song.midi", FormatMIDI},
		{"notes.txt", FormatUnknown},
		{"noext", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestConvertFileABCToMusicXML(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tune.abc")
	output := filepath.Join(dir, "tune.musicxml")

	abc := "X:1\nT:Tune\nL:1/4\nK:C\nC D E F\n"
	if err := os.WriteFile(input, []byte(abc), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ConvertFile(input, output, "C"); err != nil {
		t.Fatalf("ConvertFile() error: %v", err)
	}

	s, err := ReadMusicXML(output)
	if err != nil {
		t.Fatalf("ReadMusicXML() error: %v", err)
	}
	if s.Title != "Tune" {
		t.Errorf("Title = %q, want Tune", s.Title)
	}
	notes := s.Parts[0].Measures[0].Notes
	if len(notes) != 4 {
		t.Fatalf("notes = %d, want 4", len(notes))
	}
	if notes[0].Step != "C" || notes[0].Duration != 2 {
		t.Errorf("first note = %s/%d, want C/2", notes[0].Step, notes[0].Duration)
	}
}

func TestConvertFileMusicXMLToABC(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tune.abc")
	middle := filepath.Join(dir, "tune.xml")
	output := filepath.Join(dir, "back.abc")

	abc := "X:1\nT:Tune\nL:1/4\nK:C\nC D E F\n"
	if err := os.WriteFile(input, []byte(abc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ConvertFile(input, middle, "C"); err != nil {
		t.Fatalf("abc -> xml: %v", err)
	}
	if err := ConvertFile(middle, output, "D"); err != nil {
		t.Fatalf("xml -> abc: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "K:D") {
		t.Errorf("output missing requested key:\n%s", out)
	}
	if !strings.Contains(out, "C D E F ||") {
		t.Errorf("output missing notes:\n%s", out)
	}
}

func TestConvertFileUnsupportedOutput(t *testing.T) {
	err := ConvertFile("whatever.abc", "out.txt", "C")
	if err == nil {
		t.Fatal("expected error for unsupported output format")
	}
	if !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("error = %v, want unsupported file format", err)
	}
}

func TestReadScoreUnsupportedInput(t *testing.T) {
	if _, err := ReadScore("notes.txt"); err == nil {
		t.Error("expected error for unsupported input format")
	}
	if _, err := ReadScore("song.mid"); err == nil {
		t.Error("expected error for MIDI input")
	}
}

func TestTransposeFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tune.abc")
	output := filepath.Join(dir, "up.abc")

	abc := "X:1\nL:1/4\nK:C\nC D E F\n"
	if err := os.WriteFile(input, []byte(abc), 0644); err != nil {
		t.Fatal(err)
	}

	if err := TransposeFile(input, output, 12, "C"); err != nil {
		t.Fatalf("TransposeFile() error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	// Up an octave: every note moves to the lowercase spelling.
	if !strings.Contains(string(data), "c d e f ||") {
		t.Errorf("output = %q, want lowercase notes", string(data))
	}
}

func TestSupportedConversions(t *testing.T) {
	conversions := SupportedConversions()
	if len(conversions) != 6 {
		t.Errorf("SupportedConversions() returned %d paths, want 6", len(conversions))
	}
}
