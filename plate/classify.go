package plate

import "strings"

// Kind classifies a well by its sample identifier.
type Kind int

const (
	// Unknown is a sample of unknown concentration, the target of
	// prediction.
	Unknown Kind = iota

	// Standard is a known-concentration calibration sample.
	Standard

	// Blank is a water or negative control well.
	Blank
)

// standardMarker designates calibration standards, e.g. "ST1", "ST2".
const standardMarker = "ST"

// blankMarkers designate water and negative-control wells.
var blankMarkers = []string{"H2O", "WATER", "NEGATIVE"}

// Classify determines whether a sample identifier names a calibration
// standard, a blank/negative control, or an unknown. Matching is
// case-insensitive substring matching; this is the only place these naming
// patterns live.
func Classify(sample string) Kind {
	sample = strings.ToUpper(sample)

	if strings.Contains(sample, standardMarker) {
		return Standard
	}

	for _, marker := range blankMarkers {
		if strings.Contains(sample, marker) {
			return Blank
		}
	}

	return Unknown
}
