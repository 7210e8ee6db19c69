package util

import "strings"

// Indicator phrases for the shared remote heuristic. Kept as data so the
// lists stay testable on their own.
var (
	RemoteIndicators = []string{
		"remote",
		"work from home",
		"wfh",
		"distributed",
		"anywhere",
	}

	OnsiteIndicators = []string{
		"on-site",
		"onsite",
		"on site",
		"hybrid",
		"in-office",
		"in office",
	}
)

// InferRemote derives the tri-state remote flag from location text, title
// and description. Returns true only when remote indicators are present and
// onsite indicators absent, false only for the inverse, and nil when the
// text is silent or ambiguous. Ambiguity must not collapse to false.
func InferRemote(location, title, desc string) *bool {
	blob := strings.ToLower(strings.Join([]string{location, title, desc}, " "))

	remote := containsAny(blob, RemoteIndicators)
	onsite := containsAny(blob, OnsiteIndicators)

	switch {
	case remote && !onsite:
		return BoolPtr(true)
	case onsite && !remote:
		return BoolPtr(false)
	default:
		return nil
	}
}

func containsAny(blob string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(blob, n) {
			return true
		}
	}
	return false
}
