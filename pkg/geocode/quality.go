package geocode

import "strings"

// Quality taxonomy shared by all providers.
const (
	QualityPoint       = "point"
	QualityAddress     = "address"
	QualityRooftop     = "rooftop"
	QualityCentroid    = "centroid"
	QualityRange       = "range"
	QualityApproximate = "approximate"
)

// IsHighConfidence reports whether coordinates of the given quality are
// precise enough to attach to a record.
func IsHighConfidence(quality string) bool {
	switch quality {
	case QualityPoint, QualityAddress, QualityRooftop, QualityCentroid:
		return true
	default:
		return false
	}
}

// mapquestQuality maps MapQuest's geocodeQuality granularity.
// Only POINT and ADDRESS are precise matches.
func mapquestQuality(code string) string {
	switch strings.ToUpper(code) {
	case "POINT":
		return QualityPoint
	case "ADDRESS":
		return QualityAddress
	case "INTERSECTION", "STREET":
		return QualityRange
	default:
		return QualityApproximate
	}
}

// googleLocationTypeToQuality maps Google's location_type to our quality taxonomy.
func googleLocationTypeToQuality(locType string) string {
	switch strings.ToUpper(locType) {
	case "ROOFTOP":
		return QualityRooftop
	case "RANGE_INTERPOLATED":
		return QualityRange
	case "GEOMETRIC_CENTER":
		return QualityCentroid
	default:
		return QualityApproximate
	}
}
