package gbig

import (
	"strings"

	"github.com/sells-group/leed-cli/internal/model"
)

// minAddressSegments is the fewest comma-separated parts a listing address
// may have: street, city, state and a trailing country-like part.
const minAddressSegments = 4

// insitePrefix is an upstream artifact that sometimes precedes the street.
const insitePrefix = "InSite"

// AddressSegments is an address split on commas into trimmed, ordered parts.
type AddressSegments []string

// SplitAddress splits the listing address text into segments.
func SplitAddress(text string) AddressSegments {
	parts := strings.Split(text, ",")
	segs := make(AddressSegments, len(parts))
	for i, p := range parts {
		segs[i] = strings.TrimSpace(p)
	}
	return segs
}

// Parseable reports whether there are enough segments to apply the rules.
func (s AddressSegments) Parseable() bool {
	return len(s) >= minAddressSegments
}

// Street is the first segment, or the second when the first is the
// "InSite" prefix.
func (s AddressSegments) Street() string {
	if s[0] == insitePrefix {
		return s[1]
	}
	return s[0]
}

// City is the third segment from the end.
func (s AddressSegments) City() string {
	return s[len(s)-3]
}

// State is the second segment from the end.
func (s AddressSegments) State() string {
	return s[len(s)-2]
}

// ParseAddress applies the segment rules to the listing address text.
// ok is false when the text has fewer than four segments.
func ParseAddress(text string) (model.Address, bool) {
	segs := SplitAddress(text)
	if !segs.Parseable() {
		return model.Address{}, false
	}
	return model.Address{
		Street: segs.Street(),
		City:   segs.City(),
		State:  segs.State(),
	}, true
}
