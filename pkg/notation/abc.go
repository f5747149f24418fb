package notation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rain1024/musiz/pkg/score"
)

// ABC adapter. The reader is deliberately tolerant: unknown header
// fields are ignored, comments and blank lines are skipped, and any
// character the tokenizer does not recognize advances the scan by one
// without producing a note.

const defaultTempo = 120

// ReadABC parses an ABC file into a Score.
func ReadABC(path string) (*score.Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ABC file: %w", err)
	}
	return ParseABC(string(data)), nil
}

// ParseABC parses ABC notation text into a Score. Parsing never fails:
// malformed input degrades to fewer notes, not an error.
func ParseABC(text string) *score.Score {
	s := &score.Score{}

	metadata := map[byte]string{}
	var musicLines []string
	inHeader := true

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		// Header field (X:, T:, C:, M:, L:, Q:, K:).
		if inHeader && strings.Contains(line, ":") {
			fieldType := line[0]
			value := ""
			if len(line) > 2 {
				value = strings.TrimSpace(line[2:])
			}
			metadata[fieldType] = value

			// K: marks the end of the header.
			if fieldType == 'K' {
				inHeader = false
			}
			continue
		}

		musicLines = append(musicLines, line)
	}

	s.Title = metadata['T']
	s.Composer = metadata['C']
	if tempoStr, ok := metadata['Q']; ok && tempoStr != "" {
		s.Tempo = score.IntPtr(parseTempo(tempoStr))
	}

	part := score.Part{PartID: "P1", Name: metadata['T']}

	unitLength := parseUnitLength(metadata['L'])

	measureNum := 1
	for _, line := range musicLines {
		for _, measureText := range strings.Split(line, "|") {
			measureText = strings.TrimSpace(measureText)
			if measureText == "" {
				continue
			}

			notes := parseABCNotes(measureText, unitLength)
			if len(notes) == 0 {
				// Segments with nothing recognizable never become
				// measures, so numbering stays gap-free.
				continue
			}

			measure := score.Measure{Number: measureNum}
			for _, n := range notes {
				measure.AddNote(n)
			}
			part.AddMeasure(measure)
			measureNum++
		}
	}

	s.AddPart(part)
	return s
}

// parseUnitLength parses an L: value like "1/8" into a whole-note
// fraction, defaulting to an eighth.
func parseUnitLength(lengthStr string) float64 {
	if lengthStr == "" {
		lengthStr = "1/8"
	}
	if num, denom, ok := strings.Cut(lengthStr, "/"); ok {
		n, errN := strconv.Atoi(strings.TrimSpace(num))
		d, errD := strconv.Atoi(strings.TrimSpace(denom))
		if errN == nil && errD == nil && d != 0 {
			return float64(n) / float64(d)
		}
		return 0.125
	}
	if v, err := strconv.ParseFloat(lengthStr, 64); err == nil {
		return v
	}
	return 0.125
}

// parseTempo parses a Q: value like "1/4=108" into BPM. Anything
// malformed falls back to 120.
func parseTempo(tempoStr string) int {
	if _, bpm, ok := strings.Cut(tempoStr, "="); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(bpm)); err == nil {
			return v
		}
	}
	return defaultTempo
}

func isPitchLetter(c byte) bool {
	return (c >= 'A' && c <= 'G') || (c >= 'a' && c <= 'g')
}

func isAccidental(c byte) bool {
	return c == '^' || c == '_' || c == '='
}

// parseABCNotes scans one measure's text character by character.
func parseABCNotes(measureText string, unitLength float64) []score.Note {
	var notes []score.Note

	i := 0
	for i < len(measureText) {
		c := measureText[i]

		if c == ' ' || c == '\t' {
			i++
			continue
		}

		if isPitchLetter(c) || isAccidental(c) {
			token, length := extractNote(measureText[i:])
			i += length
			if token != "" {
				if n := parseSingleNote(token, unitLength); n != nil {
					notes = append(notes, *n)
				}
			}
			continue
		}

		// Unrecognized token: advance and continue.
		i++
	}

	return notes
}

// extractNote consumes one note token: optional accidental, pitch
// letter, octave markers, duration suffix. An accidental with no letter
// behind it consumes a single character and yields no token.
func extractNote(text string) (string, int) {
	idx := 0
	if isAccidental(text[idx]) {
		idx++
	}
	if idx >= len(text) || !isPitchLetter(text[idx]) {
		return "", 1
	}
	idx++

	for idx < len(text) && (text[idx] == ',' || text[idx] == '\'') {
		idx++
	}

	// Duration suffix: digits, an optional single slash, digits.
	for idx < len(text) && text[idx] >= '0' && text[idx] <= '9' {
		idx++
	}
	if idx < len(text) && text[idx] == '/' {
		idx++
		for idx < len(text) && text[idx] >= '0' && text[idx] <= '9' {
			idx++
		}
	}

	return text[:idx], idx
}

// parseSingleNote converts one extracted token into a Note.
func parseSingleNote(token string, unitLength float64) *score.Note {
	idx := 0
	// Accidentals are recognized but not retained: the model has no
	// accidental field, so ^F and F parse identically.
	if isAccidental(token[idx]) {
		idx++
	}
	if idx >= len(token) {
		return nil
	}

	letter := token[idx]
	idx++

	// Case encodes the default octave: uppercase C is octave 4,
	// lowercase c is octave 5.
	var octave int
	var step string
	if letter >= 'a' && letter <= 'g' {
		octave = 5
		step = strings.ToUpper(string(letter))
	} else {
		octave = 4
		step = string(letter)
	}

	for idx < len(token) && (token[idx] == ',' || token[idx] == '\'') {
		if token[idx] == ',' {
			octave--
		} else {
			octave++
		}
		idx++
	}

	multiplier := parseDurationSuffix(token[idx:])

	actual := unitLength * multiplier
	return &score.Note{
		Step:     step,
		Octave:   score.IntPtr(octave),
		Duration: DivisionsFromLength(actual),
		NoteType: TypeForLength(actual),
	}
}

// parseDurationSuffix maps an ABC duration suffix to a multiplier of
// the unit length: "" is 1, "/" alone is 1/2, "/n" is 1/n, "n" is n,
// "n/m" is n/m. Unparsable digit runs fall back to 1.
func parseDurationSuffix(suffix string) float64 {
	if suffix == "" {
		return 1.0
	}

	if suffix[0] == '/' {
		if len(suffix) == 1 {
			return 0.5
		}
		if v, err := strconv.Atoi(suffix[1:]); err == nil && v != 0 {
			return 1.0 / float64(v)
		}
		return 0.5
	}

	if num, denom, ok := strings.Cut(suffix, "/"); ok {
		n, errN := strconv.Atoi(num)
		d, errD := strconv.Atoi(denom)
		if errN == nil && errD == nil && d != 0 {
			return float64(n) / float64(d)
		}
		return 1.0
	}

	if v, err := strconv.Atoi(suffix); err == nil {
		return float64(v)
	}
	return 1.0
}

// WriteABC writes a Score to an ABC file. key fills the K: header field
// and is passed through unvalidated; empty means "C".
func WriteABC(s *score.Score, path, key string) error {
	data := RenderABC(s, key)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write ABC file: %w", err)
	}
	return nil
}

// RenderABC renders a Score as ABC notation text. Only the first part
// is rendered; the writer always declares M:4/4 and L:1/4.
func RenderABC(s *score.Score, key string) string {
	if key == "" {
		key = "C"
	}

	lines := []string{"X:1"}
	if s.Title != "" {
		lines = append(lines, "T:"+s.Title)
	}
	if s.Composer != "" {
		lines = append(lines, "C:"+s.Composer)
	}
	lines = append(lines, "M:4/4", "L:1/4")
	if s.Tempo != nil {
		lines = append(lines, fmt.Sprintf("Q:1/4=%d", *s.Tempo))
	}
	lines = append(lines, "K:"+key)

	if len(s.Parts) > 0 {
		part := s.Parts[0]

		// Group measures four per line.
		var groups [][]string
		var current []string
		for _, measure := range part.Measures {
			var noteStrs []string
			for _, n := range measure.Notes {
				if str := noteToABC(n); str != "" {
					noteStrs = append(noteStrs, str)
				}
			}
			if len(noteStrs) == 0 {
				continue
			}
			current = append(current, strings.Join(noteStrs, " "))
			if len(current) == 4 {
				groups = append(groups, current)
				current = nil
			}
		}
		if len(current) > 0 {
			groups = append(groups, current)
		}

		// Single bars between groups, double bar after the last one.
		for i, group := range groups {
			terminator := " |"
			if i == len(groups)-1 {
				terminator = " ||"
			}
			lines = append(lines, strings.Join(group, " | ")+terminator)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// noteToABC renders one note as an ABC token. Octaves 2 through 6 have
// exact spellings; anything outside that range falls back to the bare
// uppercase letter.
func noteToABC(n score.Note) string {
	if n.IsRest {
		return ABCSuffix(n.Duration)
	}
	if n.Step == "" {
		return ""
	}

	octave := 4
	if n.Octave != nil {
		octave = *n.Octave
	}

	var pitch string
	switch octave {
	case 4:
		pitch = strings.ToUpper(n.Step)
	case 5:
		pitch = strings.ToLower(n.Step)
	case 3:
		pitch = strings.ToUpper(n.Step) + ","
	case 6:
		pitch = strings.ToLower(n.Step) + "'"
	case 2:
		pitch = strings.ToUpper(n.Step) + ",,"
	default:
		pitch = strings.ToUpper(n.Step)
	}

	return pitch + ABCSuffix(n.Duration)
}
