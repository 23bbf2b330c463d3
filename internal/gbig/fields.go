package gbig

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/leed-cli/internal/model"
)

// ratingRe captures program, version and tier from the lead rating text,
// e.g. "LEED-HOMES Program Text v2013 Silver". Arbitrary text may sit between
// program and version; the tier is always the last group.
var ratingRe = regexp.MustCompile(`^(LEED).* ([vV].*) ((?i:Silver|Certified|Gold|Platinum))`)

// dateRe captures the certification date from the lead paragraph.
var dateRe = regexp.MustCompile(`^\s*on (\d{2}/\d{2}/\d{4})`)

// Rating is a parsed lead rating text.
type Rating struct {
	Program string
	Version string
	Tier    model.Tier
}

// ParseRating matches the lead rating text.
func ParseRating(text string) (Rating, bool) {
	m := ratingRe.FindStringSubmatch(text)
	if m == nil {
		return Rating{}, false
	}
	tier, ok := model.ParseTier(m[3])
	if !ok {
		return Rating{}, false
	}
	return Rating{Program: m[1], Version: m[2], Tier: tier}, true
}

// ParseCertificationDate returns the raw mm/dd/yyyy date of a lead
// paragraph text node such as "\non 04/15/2016".
func ParseCertificationDate(text string) (string, bool) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

const (
	headingSelector     = "h1"
	leadSelector        = `p[class="lead"]`
	leadRatingSelector  = `p[class="lead"] > strong`
	pointsSelector      = `h2[class="points-achieved"]`
	pointsSpanSelector  = `h2[class="points-achieved"] > span`
	propertyRowSelector = `table[class="table"] tr`
	addressSelector     = `address > a`

	pointsAwardedLabel = "Points awarded"
	spaceTypeLabel     = "Space Type"
)

// parseScore reads the points-achieved heading. Two span values are
// "awarded/possible"; a "Points awarded" label means the score is the
// heading's first non-blank own text.
func parseScore(doc *goquery.Document) (*model.Score, bool) {
	spans := ownText(doc.Find(pointsSpanSelector))
	if len(spans) == 0 {
		return nil, false
	}

	if strings.TrimSpace(spans[0]) == pointsAwardedLabel {
		text, ok := firstFilledOwnText(doc.Find(pointsSelector))
		if !ok {
			return nil, false
		}
		s := model.NewTextScore(strings.TrimSpace(text))
		return &s, true
	}

	if len(spans) == 1 {
		s := model.NewTextScore(strings.TrimSpace(spans[0]))
		return &s, true
	}
	s := model.NewPointsScore(spans[0], spans[1])
	return &s, true
}

// parsePropertyType reads the value of the table row labeled "Space Type".
func parsePropertyType(doc *goquery.Document) (string, bool) {
	var value string
	var found bool
	doc.Find(propertyRowSelector).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if !strings.Contains(tr.ChildrenFiltered("th").Text(), spaceTypeLabel) {
			return true
		}
		value, found = firstOwnText(tr.ChildrenFiltered("td"))
		return !found
	})
	return value, found
}
