package score

// SemitoneOffsets maps each natural letter name to its semitone offset
// from C within one octave.
var SemitoneOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// semitoneSteps maps every chromatic semitone to the nearest natural
// letter. The model carries no accidental state, so sharps collapse onto
// their neighbouring natural (semitone 1 -> C, semitone 3 -> D, ...).
var semitoneSteps = [12]string{
	"C", "C", "D", "D", "E", "F", "F", "G", "G", "A", "A", "B",
}

// Transpose shifts every pitched note in s by the given number of
// semitones (positive = up) and returns a new Score. The input tree is
// never mutated; rests and all non-pitch fields are copied unchanged.
func Transpose(s *Score, semitones int) *Score {
	out := &Score{
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Composer: s.Composer,
		Tempo:    copyIntPtr(s.Tempo),
	}

	for _, part := range s.Parts {
		newPart := Part{
			PartID: part.PartID,
			Name:   part.Name,
		}
		for _, measure := range part.Measures {
			newMeasure := Measure{
				Number: measure.Number,
				Width:  copyFloatPtr(measure.Width),
			}
			for _, note := range measure.Notes {
				newMeasure.AddNote(transposeNote(note, semitones))
			}
			newPart.AddMeasure(newMeasure)
		}
		out.AddPart(newPart)
	}

	return out
}

func transposeNote(n Note, semitones int) Note {
	out := copyNote(n)
	if n.IsRest {
		return out
	}

	offset, ok := SemitoneOffsets[n.Step]
	if !ok {
		// Unpitched or unknown step, pass through untouched.
		return out
	}

	octave := 4
	if n.Octave != nil {
		octave = *n.Octave
	}

	absolute := octave*12 + offset + semitones
	out.Step = semitoneSteps[floorMod(absolute, 12)]
	out.Octave = IntPtr(floorDiv(absolute, 12))
	return out
}

func copyNote(n Note) Note {
	out := n
	out.Octave = copyIntPtr(n.Octave)
	out.Staff = copyIntPtr(n.Staff)
	out.DefaultX = copyFloatPtr(n.DefaultX)
	out.DefaultY = copyFloatPtr(n.DefaultY)
	return out
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// floorDiv rounds toward negative infinity, so absolute position -1
// lands in octave -1 rather than 0.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
