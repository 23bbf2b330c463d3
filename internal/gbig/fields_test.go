package gbig

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leed-cli/internal/model"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		text    string
		version string
		tier    model.Tier
		ok      bool
	}{
		{"LEED-HOMES Program Text v2013 Silver", "v2013", model.TierSilver, true},
		{"LEED for Homes v2008 Gold", "v2008", model.TierGold, true},
		{"LEED v4 Platinum", "v4", model.TierPlatinum, true},
		{"LEED-HOMES V3 certified", "V3", model.TierCertified, true},
		{"LEED-HOMES v2013", "", "", false},
		{"Energy Star v3 Gold", "", "", false},
		{"LEED-HOMES 2013 Silver", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, ok := ParseRating(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.version, r.Version)
			assert.Equal(t, tt.tier, r.Tier)
			if ok {
				assert.Equal(t, "LEED", r.Program)
			}
		})
	}
}

func TestParseCertificationDate(t *testing.T) {
	d, ok := ParseCertificationDate("\non 04/15/2016")
	assert.True(t, ok)
	assert.Equal(t, "04/15/2016", d)

	_, ok = ParseCertificationDate("\nsometime in 2016")
	assert.False(t, ok)

	_, ok = ParseCertificationDate("on 4/15/2016")
	assert.False(t, ok)
}

func TestParseScore(t *testing.T) {
	s, ok := parseScore(doc(t, `<h2 class="points-achieved"><span>79</span> / <span>136</span></h2>`))
	require.True(t, ok)
	assert.Equal(t, "79/136", s.Raw)
	require.NotNil(t, s.Awarded)
	require.NotNil(t, s.Possible)
	assert.Equal(t, 79, *s.Awarded)
	assert.Equal(t, 136, *s.Possible)

	s, ok = parseScore(doc(t, `<h2 class="points-achieved">87 <span>Points awarded</span></h2>`))
	require.True(t, ok)
	assert.Equal(t, "87", s.Raw)
	require.NotNil(t, s.Awarded)
	assert.Equal(t, 87, *s.Awarded)
	assert.Nil(t, s.Possible)

	_, ok = parseScore(doc(t, `<h2>Something else</h2>`))
	assert.False(t, ok)
}

func TestParseScore_PointsAwardedAfterWhitespace(t *testing.T) {
	s, ok := parseScore(doc(t, "<h2 class=\"points-achieved\">\n<span>Points awarded</span> 87</h2>"))
	require.True(t, ok)
	assert.Equal(t, "87", s.Raw)
	require.NotNil(t, s.Awarded)
	assert.Equal(t, 87, *s.Awarded)

	_, ok = parseScore(doc(t, "<h2 class=\"points-achieved\">\n<span>Points awarded</span>\n</h2>"))
	assert.False(t, ok)
}

func TestParsePropertyType(t *testing.T) {
	pt, ok := parsePropertyType(doc(t, `<table class="table">
		<tr><th>Owner Type</th><td>Private</td></tr>
		<tr><th><em>Space Type</em></th><td>Multi-Family</td></tr>
	</table>`))
	assert.True(t, ok)
	assert.Equal(t, "Multi-Family", pt)

	_, ok = parsePropertyType(doc(t, `<table class="table"><tr><th>Owner Type</th><td>Private</td></tr></table>`))
	assert.False(t, ok)

	_, ok = parsePropertyType(doc(t, `<table class="data"><tr><th>Space Type</th><td>Office</td></tr></table>`))
	assert.False(t, ok)
}
