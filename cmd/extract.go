package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leed-cli/internal/export"
	"github.com/sells-group/leed-cli/internal/gbig"
	"github.com/sells-group/leed-cli/internal/model"
)

var (
	extractQuery    queryFlags
	extractIDs      []string
	extractOut      string
	extractFormat   string
	extractKeyStyle string
	extractWorkers  int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract certification records for a geography or for given identifiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if extractFormat != "" {
			cfg.Export.Format = extractFormat
		}
		if extractKeyStyle != "" {
			cfg.Export.KeyStyle = extractKeyStyle
		}
		if extractWorkers > 0 {
			cfg.Batch.Concurrency = extractWorkers
		}

		env, err := initEnv(cfg, "extract")
		if err != nil {
			return err
		}

		runID := uuid.NewString()
		log := zap.L().With(zap.String("command", "extract"), zap.String("run_id", runID))

		outcomes, err := runExtract(ctx, env, extractIDs, extractQuery)
		if err != nil {
			return err
		}

		w, closeOut, err := openOutput(extractOut, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeOut()

		if err := export.Write(w, outcomes, env.Format, env.KeyStyle); err != nil {
			return eris.Wrap(err, "write records")
		}

		failed := 0
		for _, o := range outcomes {
			if !o.OK() {
				failed++
			}
		}
		log.Info("extract complete",
			zap.Int("outcomes", len(outcomes)),
			zap.Int("error_outcomes", failed),
			zap.String("format", string(env.Format)),
		)
		return nil
	},
}

// runExtract extracts ids when given, otherwise harvests the geography
// described by qf.
func runExtract(ctx context.Context, env *leedEnv, ids []string, qf queryFlags) ([]model.Outcome, error) {
	if len(ids) > 0 {
		return env.Extractor.ExtractAll(ctx, ids, env.Concurrency)
	}

	q, err := qf.query(time.Now())
	if err != nil {
		return nil, err
	}
	return gbig.Harvest(ctx, env.Discoverer, env.Extractor, q, env.Concurrency)
}

// openOutput returns the writer for path. An empty path or "-" writes to
// fallback.
func openOutput(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return fallback, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output %s", path)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("close output failed", zap.String("path", path), zap.Error(err))
		}
	}, nil
}

func init() {
	addQueryFlags(extractCmd, &extractQuery)
	extractCmd.Flags().StringSliceVar(&extractIDs, "id", nil, "detail identifier(s) to extract instead of searching, e.g. /activities/leed-10549162")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output file (default stdout)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "output format: json, jsonl, yaml or xlsx (default from config)")
	extractCmd.Flags().StringVar(&extractKeyStyle, "key-style", "", "output key style: title or snake (default from config)")
	extractCmd.Flags().IntVar(&extractWorkers, "concurrency", 0, "parallel detail extractions (default from config)")
	rootCmd.AddCommand(extractCmd)
}
