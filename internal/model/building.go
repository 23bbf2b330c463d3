package model

import (
	"strconv"
	"strings"
)

// Tier is the awarded certification level.
type Tier string

const (
	TierCertified Tier = "CERTIFIED"
	TierSilver    Tier = "SILVER"
	TierGold      Tier = "GOLD"
	TierPlatinum  Tier = "PLATINUM"
)

// AllTiers returns all defined tiers in ascending order.
func AllTiers() []Tier {
	return []Tier{TierCertified, TierSilver, TierGold, TierPlatinum}
}

// ParseTier matches s case-insensitively against the known tiers.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllTiers() {
		if t == known {
			return known, true
		}
	}
	return "", false
}

const (
	// AssessmentName is the fixed program name attached to every record.
	AssessmentName = "LEED for Homes"
	// AssessmentSource is the issuing authority.
	AssessmentSource = "U.S. Green Building Council"
)

// StatusSuccess is the only status a BuildingRecord is ever returned with.
const StatusSuccess = "success"

// Score holds the points awarded to a building.
// Raw is either "<awarded>/<total>" or the upstream free-text value.
type Score struct {
	Raw      string `json:"raw"`
	Awarded  *int   `json:"awarded,omitempty"`
	Possible *int   `json:"possible,omitempty"`
}

// NewPointsScore builds a Score from the awarded and possible span values.
// Non-numeric values are kept in Raw only.
func NewPointsScore(awarded, possible string) Score {
	awarded = strings.TrimSpace(awarded)
	possible = strings.TrimSpace(possible)
	s := Score{Raw: awarded + "/" + possible}
	if n, err := strconv.Atoi(awarded); err == nil {
		s.Awarded = &n
	}
	if n, err := strconv.Atoi(possible); err == nil {
		s.Possible = &n
	}
	return s
}

// NewTextScore builds a Score from a single free-text value.
func NewTextScore(text string) Score {
	s := Score{Raw: text}
	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
		s.Awarded = &n
	}
	return s
}

// Address holds the postal address of a certified building.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Coordinates is a geocoded point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BuildingRecord is a normalized LEED certification record.
type BuildingRecord struct {
	AssessmentName string       `json:"assessment_name"`
	Source         string       `json:"source"`
	URL            string       `json:"url"`
	Rating         Tier         `json:"rating"`
	Version        string       `json:"version"`
	Date           string       `json:"date"` // mm/dd/yyyy, as published
	Score          *Score       `json:"score,omitempty"`
	PropertyType   string       `json:"property_type,omitempty"`
	Address        *Address     `json:"address,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	Status         string       `json:"status"`
}

// Complete reports whether the mandatory rating/date/url triple is populated.
func (b *BuildingRecord) Complete() bool {
	return b != nil && b.Rating != "" && b.Date != "" && b.URL != ""
}
