package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// DateLayout is the ISO date format used in search query strings.
const DateLayout = "2006-01-02"

// SearchQuery scopes a listing to a geography and an optional date window.
type SearchQuery struct {
	GeoID  string
	After  *time.Time
	Before *time.Time
}

// NewSearchQuery validates and builds a SearchQuery. Before is only
// accepted together with After.
func NewSearchQuery(geoID string, after, before *time.Time) (SearchQuery, error) {
	if geoID == "" {
		return SearchQuery{}, eris.New("search query: geography id is required")
	}
	if before != nil && after == nil {
		return SearchQuery{}, eris.New("search query: before date requires an after date")
	}
	if after != nil && before != nil && before.Before(*after) {
		return SearchQuery{}, eris.Errorf("search query: before date %s precedes after date %s",
			before.Format(DateLayout), after.Format(DateLayout))
	}
	return SearchQuery{GeoID: geoID, After: after, Before: before}, nil
}

// ParseDate parses an optional yyyy-mm-dd string; empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, eris.Wrapf(err, "parse date %q", s)
	}
	return &t, nil
}

// PageBatch holds the rows of one result page. Badges and IDs are
// position-aligned.
type PageBatch struct {
	Page   int
	Badges []string
	IDs    []string
}

// BadgeRegistered marks an uncertified listing row.
const BadgeRegistered = "Registered"

// Certified returns the identifiers whose badge is not exactly "Registered",
// in page order.
func (b PageBatch) Certified() []string {
	out := make([]string, 0, len(b.IDs))
	for i, id := range b.IDs {
		if i < len(b.Badges) && b.Badges[i] == BadgeRegistered {
			continue
		}
		out = append(out, id)
	}
	return out
}
