// Package score defines the in-memory representation shared by every
// notation format: a Score owns Parts, a Part owns Measures, a Measure
// owns Notes. Format adapters build and consume these trees; they never
// talk to each other directly.
package score

import "fmt"

// Note is a single pitched sound or rest. Step and Octave are unset for
// rests. Duration is measured in divisions (2 per quarter note, so an
// eighth of a whole note); 0 is a legal zero-length duration.
type Note struct {
	Step     string // C, D, E, F, G, A, B ("" for rests)
	Octave   *int   // scientific pitch octave, nil when unpositioned
	Duration int    // divisions (eighths of a whole note)
	NoteType string // whole, half, quarter, eighth, 16th
	Voice    string
	Staff    *int
	IsRest   bool
	Stem     string
	DefaultX *float64 // layout hint, carried through unchanged
	DefaultY *float64
}

// String renders the note for diagnostics.
func (n Note) String() string {
	if n.IsRest {
		return fmt.Sprintf("Rest(duration=%d, type=%s)", n.Duration, n.NoteType)
	}
	octave := "?"
	if n.Octave != nil {
		octave = fmt.Sprint(*n.Octave)
	}
	return fmt.Sprintf("Note(%s%s, duration=%d, type=%s)", n.Step, octave, n.Duration, n.NoteType)
}

// Measure is an ordered run of notes with a 1-based number.
type Measure struct {
	Number int
	Notes  []Note
	Width  *float64 // layout hint
}

func (m *Measure) AddNote(n Note) {
	m.Notes = append(m.Notes, n)
}

func (m Measure) String() string {
	return fmt.Sprintf("Measure %d: %d notes", m.Number, len(m.Notes))
}

// Part is an ordered run of measures with an identifier unique within
// its Score.
type Part struct {
	PartID   string
	Name     string
	Measures []Measure
}

func (p *Part) AddMeasure(m Measure) {
	p.Measures = append(p.Measures, m)
}

func (p Part) String() string {
	name := p.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("Part %s (%s): %d measures", p.PartID, name, len(p.Measures))
}

// Score is the top-level aggregate. A score with zero parts is a valid
// empty document. Tempo is BPM for a quarter-note pulse; nil when the
// source carried none.
type Score struct {
	Title    string
	Subtitle string
	Composer string
	Tempo    *int
	Parts    []Part
}

func (s *Score) AddPart(p Part) {
	s.Parts = append(s.Parts, p)
}

func (s Score) String() string {
	title := s.Title
	if title == "" {
		title = "Untitled"
	}
	composer := s.Composer
	if composer == "" {
		composer = "Unknown"
	}
	return fmt.Sprintf("Score: %s by %s - %d part(s)", title, composer, len(s.Parts))
}

// IntPtr returns a pointer to v. Adapters use it when filling optional
// integer fields.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }
