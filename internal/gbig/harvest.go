package gbig

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leed-cli/internal/model"
)

// ExtractAll extracts every identifier with up to concurrency parallel
// extractions. Outcomes keep the order of ids. The first transport failure
// cancels the remaining work and is returned.
func (e *Extractor) ExtractAll(ctx context.Context, ids []string, concurrency int) ([]model.Outcome, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]model.Outcome, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, id := range ids {
		g.Go(func() error {
			out, err := e.Extract(gCtx, id)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "gbig: extract all")
	}
	return outcomes, nil
}

// Harvest lists the identifiers matching q and extracts each one.
func Harvest(ctx context.Context, d *Discoverer, e *Extractor, q model.SearchQuery, concurrency int) ([]model.Outcome, error) {
	ids, err := d.ListIdentifiers(ctx, q)
	if err != nil {
		return nil, err
	}

	outcomes, err := e.ExtractAll(ctx, ids, concurrency)
	if err != nil {
		return nil, err
	}

	var failed int
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	zap.L().Info("gbig: harvest complete",
		zap.String("geo_id", q.GeoID),
		zap.Int("identifiers", len(ids)),
		zap.Int("records", len(ids)-failed),
		zap.Int("error_outcomes", failed),
	)
	return outcomes, nil
}
