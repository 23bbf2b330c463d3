package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listQuery     queryFlags
	listPagesOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List certified building identifiers for a geography",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		q, err := listQuery.query(time.Now())
		if err != nil {
			return err
		}

		env, err := initEnv(cfg, "list")
		if err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "list"), zap.String("geo_id", q.GeoID))
		out := cmd.OutOrStdout()

		if listPagesOnly {
			pages, ok, err := env.Discoverer.CountPages(ctx, q)
			if err != nil {
				return eris.Wrap(err, "count pages")
			}
			if !ok {
				log.Info("no results")
				pages = 0
			}
			fmt.Fprintln(out, pages)
			return nil
		}

		ids, err := env.Discoverer.ListIdentifiers(ctx, q)
		if err != nil {
			return eris.Wrap(err, "list identifiers")
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		log.Info("listing complete", zap.Int("identifiers", len(ids)))
		return nil
	},
}

func addQueryFlags(cmd *cobra.Command, f *queryFlags) {
	cmd.Flags().StringVar(&f.geo, "geo", "", "upstream place identifier to search within")
	cmd.Flags().StringVar(&f.after, "after", "", "only certifications on or after this date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&f.before, "before", "", "only certifications on or before this date (yyyy-mm-dd); requires --after")
	cmd.Flags().BoolVar(&f.lastYear, "last-year", false, "set --after to one year ago when it is not given")
}

func init() {
	addQueryFlags(listCmd, &listQuery)
	listCmd.Flags().BoolVar(&listPagesOnly, "pages", false, "print the result page count only")
	rootCmd.AddCommand(listCmd)
}
