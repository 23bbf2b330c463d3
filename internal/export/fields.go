// Package export maps extraction outcomes onto an external key-naming
// convention and serializes them.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leed-cli/internal/model"
)

// KeyStyle selects the external key-naming convention.
type KeyStyle string

const (
	// KeyStyleTitle yields keys like "Green Assessment Property Rating".
	KeyStyleTitle KeyStyle = "title"
	// KeyStyleSnake yields keys like "green_assessment_property_rating".
	KeyStyleSnake KeyStyle = "snake"
)

// ParseKeyStyle validates a configured key style.
func ParseKeyStyle(s string) (KeyStyle, error) {
	switch KeyStyle(strings.ToLower(s)) {
	case KeyStyleTitle:
		return KeyStyleTitle, nil
	case KeyStyleSnake:
		return KeyStyleSnake, nil
	default:
		return "", eris.Errorf("export: unknown key style %q", s)
	}
}

// Canonical field keys, in output order.
const (
	KeyID             = "id"
	KeyStatus         = "status"
	KeyErrorKind      = "error_kind"
	KeyMessage        = "message"
	KeyAssessmentName = "green_assessment_name"
	KeySource         = "green_assessment_property_source"
	KeyRating         = "green_assessment_property_rating"
	KeyVersion        = "green_assessment_property_version"
	KeyURL            = "green_assessment_property_url"
	KeyDate           = "green_assessment_property_date"
	KeyScore          = "green_assessment_property_score"
	KeyPropertyType   = "property_type"
	KeyStreet         = "address_line_1"
	KeyCity           = "city"
	KeyState          = "state"
	KeyPostalCode     = "postal_code"
	KeyLatitude       = "latitude"
	KeyLongitude      = "longitude"
)

// Columns lists every canonical key in output order.
var Columns = []string{
	KeyID, KeyStatus, KeyErrorKind, KeyMessage,
	KeyAssessmentName, KeySource, KeyRating, KeyVersion, KeyURL, KeyDate, KeyScore,
	KeyPropertyType, KeyStreet, KeyCity, KeyState, KeyPostalCode, KeyLatitude, KeyLongitude,
}

// Field is one key/value pair of an exported row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered set of fields.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// titleOverrides are the title-style keys that do not follow title casing.
// The version key carries two spaces in existing consumers.
var titleOverrides = map[string]string{
	KeyStatus:  "status",
	KeyMessage: "message",
	KeyVersion: "Green Assessment  Property Version",
	KeyScore:   "Green Assessment Property Extra Data",
}

// scoreDataKey names the score inside the title-style extra data object.
const scoreDataKey = "leed_score"

// FormatKey renders a canonical snake_case key in the given style.
func FormatKey(key string, style KeyStyle) string {
	if style == KeyStyleTitle {
		if k, ok := titleOverrides[key]; ok {
			return k
		}
		// Casers are stateful; one per call keeps FormatKey goroutine-safe.
		return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
	}
	return key
}

// Fields flattens an outcome into an ordered row. Optional fields that
// are absent are omitted.
func Fields(o model.Outcome, style KeyStyle) Row {
	var row Row
	add := func(key string, v any) {
		row = append(row, Field{Key: FormatKey(key, style), Value: v})
	}

	add(KeyID, o.ID)
	add(KeyStatus, o.Status())
	if !o.OK() {
		if o.Error != nil {
			add(KeyErrorKind, string(o.Error.Kind))
			add(KeyMessage, o.Error.Message)
		}
		return row
	}

	rec := o.Record
	add(KeyAssessmentName, rec.AssessmentName)
	add(KeySource, rec.Source)
	add(KeyRating, string(rec.Rating))
	add(KeyVersion, rec.Version)
	add(KeyURL, rec.URL)
	add(KeyDate, rec.Date)
	if rec.Score != nil {
		if style == KeyStyleTitle {
			add(KeyScore, map[string]string{scoreDataKey: rec.Score.Raw})
		} else {
			add(KeyScore, rec.Score.Raw)
		}
	}
	if rec.PropertyType != "" {
		add(KeyPropertyType, rec.PropertyType)
	}
	if a := rec.Address; a != nil {
		add(KeyStreet, a.Street)
		add(KeyCity, a.City)
		add(KeyState, a.State)
		if a.PostalCode != "" {
			add(KeyPostalCode, a.PostalCode)
		}
	}
	if c := rec.Coordinates; c != nil {
		add(KeyLatitude, c.Latitude)
		add(KeyLongitude, c.Longitude)
	}
	return row
}
