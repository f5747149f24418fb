package notation

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"

	"github.com/rain1024/musiz/pkg/score"
)

// MusicXML adapter over score-partwise documents. Reading tolerates
// missing optional structure (parts without an id and measures without
// a number attribute are skipped); writing always pins divisions to 2,
// C major, 4/4 and a treble clef on the first measure.

type xmlScorePartwise struct {
	XMLName        xml.Name           `xml:"score-partwise"`
	Version        string             `xml:"version,attr,omitempty"`
	Work           *xmlWork           `xml:"work,omitempty"`
	Identification *xmlIdentification `xml:"identification,omitempty"`
	Credits        []xmlCredit        `xml:"credit,omitempty"`
	PartList       *xmlPartList       `xml:"part-list,omitempty"`
	Parts          []xmlPart          `xml:"part"`
}

type xmlWork struct {
	Title string `xml:"work-title,omitempty"`
}

type xmlIdentification struct {
	Creators []xmlCreator `xml:"creator,omitempty"`
}

type xmlCreator struct {
	Type string `xml:"type,attr"`
	Name string `xml:",chardata"`
}

type xmlCredit struct {
	Type  string `xml:"credit-type"`
	Words string `xml:"credit-words"`
}

type xmlPartList struct {
	ScoreParts []xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number     string         `xml:"number,attr"`
	Width      string         `xml:"width,attr,omitempty"`
	Attributes *xmlAttributes `xml:"attributes,omitempty"`
	Direction  *xmlDirection  `xml:"direction,omitempty"`
	Notes      []xmlNote      `xml:"note"`
}

type xmlAttributes struct {
	Divisions int      `xml:"divisions"`
	Key       *xmlKey  `xml:"key,omitempty"`
	Time      *xmlTime `xml:"time,omitempty"`
	Clef      *xmlClef `xml:"clef,omitempty"`
}

type xmlKey struct {
	Fifths int `xml:"fifths"`
}

type xmlTime struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type xmlClef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlDirection struct {
	Placement     string           `xml:"placement,attr,omitempty"`
	DirectionType xmlDirectionType `xml:"direction-type"`
	Sound         *xmlSound        `xml:"sound,omitempty"`
}

type xmlDirectionType struct {
	Metronome xmlMetronome `xml:"metronome"`
}

type xmlMetronome struct {
	Parentheses string `xml:"parentheses,attr,omitempty"`
	BeatUnit    string `xml:"beat-unit"`
	PerMinute   int    `xml:"per-minute"`
}

type xmlSound struct {
	Tempo string `xml:"tempo,attr"`
}

type xmlEmpty struct{}

type xmlPitch struct {
	Step   string `xml:"step"`
	Octave *int   `xml:"octave"`
}

// Field order matters on the write side: rest or pitch first, then
// duration (always emitted, even 0), type, dot, voice.
type xmlNote struct {
	DefaultX string    `xml:"default-x,attr,omitempty"`
	DefaultY string    `xml:"default-y,attr,omitempty"`
	Rest     *xmlEmpty `xml:"rest,omitempty"`
	Pitch    *xmlPitch `xml:"pitch,omitempty"`
	Duration int       `xml:"duration"`
	Type     string    `xml:"type,omitempty"`
	Dot      *xmlEmpty `xml:"dot,omitempty"`
	Voice    string    `xml:"voice,omitempty"`
	Staff    string    `xml:"staff,omitempty"`
	Stem     string    `xml:"stem,omitempty"`
}

// ReadMusicXML parses a MusicXML file into a Score.
func ReadMusicXML(path string) (*score.Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read MusicXML file: %w", err)
	}
	return ParseMusicXML(data)
}

// ParseMusicXML parses a score-partwise document into a Score.
func ParseMusicXML(data []byte) (*score.Score, error) {
	var doc xmlScorePartwise
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse MusicXML: %w", err)
	}

	s := &score.Score{}

	if doc.Work != nil {
		s.Title = doc.Work.Title
	}

	// Credits override the work title; last one wins.
	for _, credit := range doc.Credits {
		switch credit.Type {
		case "title":
			s.Title = credit.Words
		case "subtitle":
			s.Subtitle = credit.Words
		case "composer":
			s.Composer = credit.Words
		}
	}

	partNames := map[string]string{}
	if doc.PartList != nil {
		for _, sp := range doc.PartList.ScoreParts {
			partNames[sp.ID] = sp.Name
		}
	}

	for _, partElem := range doc.Parts {
		if partElem.ID == "" {
			continue
		}
		part := score.Part{PartID: partElem.ID, Name: partNames[partElem.ID]}

		for _, measureElem := range partElem.Measures {
			number, err := strconv.Atoi(measureElem.Number)
			if err != nil {
				continue
			}
			measure := score.Measure{Number: number}
			if measureElem.Width != "" {
				if w, err := strconv.ParseFloat(measureElem.Width, 64); err == nil {
					measure.Width = score.FloatPtr(w)
				}
			}

			for _, noteElem := range measureElem.Notes {
				measure.AddNote(parseXMLNote(noteElem))
			}

			if len(measure.Notes) == 0 {
				continue
			}
			part.AddMeasure(measure)
		}

		s.AddPart(part)
	}

	return s, nil
}

func parseXMLNote(elem xmlNote) score.Note {
	n := score.Note{
		Duration: elem.Duration,
		NoteType: elem.Type,
		Voice:    elem.Voice,
		Stem:     elem.Stem,
		IsRest:   elem.Rest != nil,
	}

	if !n.IsRest && elem.Pitch != nil {
		n.Step = elem.Pitch.Step
		if elem.Pitch.Octave != nil {
			n.Octave = score.IntPtr(*elem.Pitch.Octave)
		}
	}

	if elem.Staff != "" {
		if v, err := strconv.Atoi(elem.Staff); err == nil {
			n.Staff = score.IntPtr(v)
		}
	}
	if elem.DefaultX != "" {
		if v, err := strconv.ParseFloat(elem.DefaultX, 64); err == nil {
			n.DefaultX = score.FloatPtr(v)
		}
	}
	if elem.DefaultY != "" {
		if v, err := strconv.ParseFloat(elem.DefaultY, 64); err == nil {
			n.DefaultY = score.FloatPtr(v)
		}
	}

	return n
}

// WriteMusicXML writes a Score to a MusicXML file.
func WriteMusicXML(s *score.Score, path string) error {
	data, err := RenderMusicXML(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write MusicXML file: %w", err)
	}
	return nil
}

// RenderMusicXML renders a Score as an indented score-partwise
// document.
func RenderMusicXML(s *score.Score) ([]byte, error) {
	doc := xmlScorePartwise{Version: "4.0"}

	if s.Title != "" {
		doc.Work = &xmlWork{Title: s.Title}
	}

	doc.Identification = &xmlIdentification{}
	if s.Composer != "" {
		doc.Identification.Creators = []xmlCreator{{Type: "composer", Name: s.Composer}}
	}

	doc.PartList = &xmlPartList{}
	for _, part := range s.Parts {
		name := part.Name
		if name == "" {
			name = "Music"
		}
		doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, xmlScorePart{
			ID:   part.PartID,
			Name: name,
		})
	}

	for _, part := range s.Parts {
		partElem := xmlPart{ID: part.PartID}

		for _, measure := range part.Measures {
			measureElem := xmlMeasure{Number: strconv.Itoa(measure.Number)}

			if measure.Number == 1 {
				measureElem.Attributes = &xmlAttributes{
					Divisions: DivisionsPerQuarter,
					Key:       &xmlKey{Fifths: 0},
					Time:      &xmlTime{Beats: "4", BeatType: "4"},
					Clef:      &xmlClef{Sign: "G", Line: 2},
				}
				if s.Tempo != nil {
					measureElem.Direction = &xmlDirection{
						Placement: "above",
						DirectionType: xmlDirectionType{
							Metronome: xmlMetronome{
								Parentheses: "no",
								BeatUnit:    "quarter",
								PerMinute:   *s.Tempo,
							},
						},
						Sound: &xmlSound{Tempo: strconv.Itoa(*s.Tempo)},
					}
				}
			}

			for _, note := range measure.Notes {
				measureElem.Notes = append(measureElem.Notes, buildXMLNote(note))
			}

			partElem.Measures = append(partElem.Measures, measureElem)
		}

		doc.Parts = append(doc.Parts, partElem)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize MusicXML: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func buildXMLNote(n score.Note) xmlNote {
	elem := xmlNote{Duration: n.Duration, Type: n.NoteType}

	if n.IsRest {
		elem.Rest = &xmlEmpty{}
	} else {
		elem.Pitch = &xmlPitch{Step: n.Step}
		if n.Octave != nil {
			elem.Pitch.Octave = score.IntPtr(*n.Octave)
		}
	}

	if IsDotted(n.Duration) {
		elem.Dot = &xmlEmpty{}
	}

	elem.Voice = n.Voice
	if elem.Voice == "" {
		elem.Voice = "1"
	}

	return elem
}
