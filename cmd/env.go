package main

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leed-cli/internal/config"
	"github.com/sells-group/leed-cli/internal/export"
	"github.com/sells-group/leed-cli/internal/gbig"
	"github.com/sells-group/leed-cli/internal/model"
	"github.com/sells-group/leed-cli/internal/resilience"
	"github.com/sells-group/leed-cli/internal/scrape"
	"github.com/sells-group/leed-cli/pkg/geocode"
)

// leedEnv holds the clients shared by the list, extract and serve commands.
type leedEnv struct {
	Discoverer  *gbig.Discoverer
	Extractor   *gbig.Extractor
	Format      export.Format
	KeyStyle    export.KeyStyle
	Concurrency int
}

// initEnv validates c for mode and wires the upstream fetcher, the
// geocoder and the export settings.
func initEnv(c *config.Config, mode string) (*leedEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	fetcher := scrape.NewHTTPFetcher(scrape.HTTPOptions{
		UserAgent: c.GBIG.UserAgent,
		Timeout:   time.Duration(c.GBIG.TimeoutSecs) * time.Second,
	})
	return newEnv(c, mode, fetcher)
}

func newEnv(c *config.Config, mode string, fetcher scrape.Fetcher) (*leedEnv, error) {
	env := &leedEnv{
		Discoverer: gbig.NewDiscoverer(fetcher,
			gbig.WithSearchURL(c.GBIG.SearchURL()),
			gbig.WithProgramFilter(c.GBIG.ProgramFilter),
		),
		Concurrency: c.Batch.Concurrency,
	}
	if mode == "list" {
		return env, nil
	}

	format, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return nil, err
	}
	style, err := export.ParseKeyStyle(c.Export.KeyStyle)
	if err != nil {
		return nil, err
	}
	env.Format = format
	env.KeyStyle = style

	geocoder, err := geocode.NewClient(strings.ToLower(c.Geocode.Provider), c.Geocode.APIKey(),
		geocode.WithTimeout(time.Duration(c.Geocode.TimeoutSecs)*time.Second),
		geocode.WithRateLimit(c.Geocode.RateLimit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "init geocoder")
	}
	if geocoder == nil {
		zap.L().Info("geocoding disabled")
	}

	retry := resilience.DefaultRetryConfig()
	retry.Delay = time.Duration(c.GBIG.PlaceholderDelaySecs) * time.Second
	retry.OnRetry = resilience.RetryLogger("gbig", "detail_page")

	env.Extractor = gbig.NewExtractor(fetcher,
		gbig.WithBaseURL(c.GBIG.BaseURL),
		gbig.WithGeocoder(geocoder),
		gbig.WithPlaceholderRetry(retry),
	)
	return env, nil
}

// queryFlags are the search options shared by list and extract.
type queryFlags struct {
	geo      string
	after    string
	before   string
	lastYear bool
}

// query validates the flags into a SearchQuery. lastYear sets the after
// date to the calendar day one year before now, in now's location, when
// no explicit after date is given.
func (f queryFlags) query(now time.Time) (model.SearchQuery, error) {
	after, err := model.ParseDate(f.after)
	if err != nil {
		return model.SearchQuery{}, err
	}
	before, err := model.ParseDate(f.before)
	if err != nil {
		return model.SearchQuery{}, err
	}
	if f.lastYear && after == nil {
		y, m, d := now.AddDate(-1, 0, 0).Date()
		t := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		after = &t
	}
	return model.NewSearchQuery(f.geo, after, before)
}
