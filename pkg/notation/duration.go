package notation

import (
	"fmt"
	"math"
)

// Duration bookkeeping shared by every adapter. The internal unit is an
// eighth of a whole note (DivisionsPerQuarter = 2), which keeps both the
// ABC fractional model and the MusicXML divisions model in exact integer
// arithmetic, dotted durations included (dotted quarter = 3).
const (
	DivisionsPerWhole   = 8
	DivisionsPerQuarter = 2
)

// DivisionsFromLength converts a duration expressed as a fraction of a
// whole note into internal divisions.
func DivisionsFromLength(length float64) int {
	return int(math.Round(length * DivisionsPerWhole))
}

// TypeForLength classifies a whole-note fraction into a symbolic note
// type. Thresholds are inclusive, so exactly 1/8 is an eighth.
func TypeForLength(length float64) string {
	switch {
	case length >= 1.0:
		return "whole"
	case length >= 0.5:
		return "half"
	case length >= 0.25:
		return "quarter"
	case length >= 0.125:
		return "eighth"
	default:
		return "16th"
	}
}

// TypeForDivisions classifies an internal division count.
func TypeForDivisions(divisions int) string {
	return TypeForLength(float64(divisions) / DivisionsPerWhole)
}

// abcSuffixes covers the exact division counts the ABC writer emits
// without arithmetic: eighth, quarter, dotted quarter, half, dotted
// half, whole (against the L:1/4 unit the writer declares).
var abcSuffixes = map[int]string{
	1: "/",
	2: "",
	3: "3/2",
	4: "2",
	6: "3",
	8: "4",
}

// ABCSuffix renders an internal division count as an ABC duration
// suffix. Values outside the fixed table fall back to a fraction below
// one quarter and an integer multiplier at or above it. Non-positive
// durations (grace/zero-length notes) render as an empty suffix rather
// than failing.
func ABCSuffix(divisions int) string {
	if s, ok := abcSuffixes[divisions]; ok {
		return s
	}
	if divisions <= 0 {
		return ""
	}
	if divisions < DivisionsPerQuarter {
		return fmt.Sprintf("/%d", DivisionsPerQuarter/divisions)
	}
	return fmt.Sprintf("%d", divisions/DivisionsPerQuarter)
}

// dottedDivisions are the dotted durations expressible at divisions=2:
// dotted quarter, dotted half, dotted whole. The writer marks exactly
// these; other dotted values at different divisions are not detected.
var dottedDivisions = map[int]bool{3: true, 6: true, 12: true}

// IsDotted reports whether a division count gets a dot element in
// MusicXML output.
func IsDotted(divisions int) bool {
	return dottedDivisions[divisions]
}
