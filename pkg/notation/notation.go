// Package notation converts between music notation formats through the
// shared score model: ABC text, MusicXML documents, and (write-only)
// Standard MIDI Files.
package notation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rain1024/musiz/pkg/score"
)

// Format identifies a music notation file format.
type Format string

const (
	FormatABC      Format = "abc"
	FormatMusicXML Format = "musicxml"
	FormatMIDI     Format = "midi"
	FormatUnknown  Format = "unknown"
)

// DetectFormat detects the format of a file based on its extension.
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".abc":
		return FormatABC
	case ".xml", ".musicxml":
		return FormatMusicXML
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// Parse parses in-memory notation text in the given format.
func Parse(data []byte, format Format) (*score.Score, error) {
	switch format {
	case FormatABC:
		return ParseABC(string(data)), nil
	case FormatMusicXML:
		return ParseMusicXML(data)
	case FormatMIDI:
		return nil, errors.New("reading MIDI files is not supported")
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// Render serializes a Score in the given format. key is only used by
// the ABC writer.
func Render(s *score.Score, format Format, key string) ([]byte, error) {
	switch format {
	case FormatABC:
		return []byte(RenderABC(s, key)), nil
	case FormatMusicXML:
		return RenderMusicXML(s)
	case FormatMIDI:
		return GenerateSMF(s)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ReadScore reads a score from a file, picking the adapter by
// extension. Unrecognized extensions fail before any I/O is attempted.
func ReadScore(path string) (*score.Score, error) {
	switch DetectFormat(path) {
	case FormatABC:
		return ReadABC(path)
	case FormatMusicXML:
		return ReadMusicXML(path)
	case FormatMIDI:
		return nil, errors.New("reading MIDI files is not supported")
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

// WriteScore writes a score to a file, picking the adapter by
// extension. key is only used for ABC output; empty means "C".
func WriteScore(s *score.Score, path, key string) error {
	switch DetectFormat(path) {
	case FormatABC:
		return WriteABC(s, path, key)
	case FormatMusicXML:
		return WriteMusicXML(s, path)
	case FormatMIDI:
		return WriteSMF(s, path)
	default:
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

// ConvertFile reads a score from inputPath and writes it to outputPath
// in the format implied by the output extension.
func ConvertFile(inputPath, outputPath, key string) error {
	if DetectFormat(outputPath) == FormatUnknown {
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(outputPath))
	}

	s, err := ReadScore(inputPath)
	if err != nil {
		return err
	}
	return WriteScore(s, outputPath, key)
}

// TransposeFile reads a score, transposes it by the given number of
// semitones and writes the result to outputPath.
func TransposeFile(inputPath, outputPath string, semitones int, key string) error {
	if DetectFormat(outputPath) == FormatUnknown {
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(outputPath))
	}

	s, err := ReadScore(inputPath)
	if err != nil {
		return err
	}
	return WriteScore(score.Transpose(s, semitones), outputPath, key)
}

// SupportedConversions lists the conversion paths ConvertFile handles.
func SupportedConversions() []string {
	return []string{
		"abc -> musicxml",
		"abc -> midi",
		"musicxml -> abc",
		"musicxml -> midi",
		"abc -> abc",
		"musicxml -> musicxml",
	}
}
