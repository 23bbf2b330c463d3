package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leed-cli/internal/export"
	"github.com/sells-group/leed-cli/internal/gbig"
	"github.com/sells-group/leed-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for on-demand extraction",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg.Server.Port = resolvePort(servePort, cfg.Server.Port)
		env, err := initEnv(cfg, "serve")
		if err != nil {
			return err
		}

		return startServer(ctx, buildMux(env), cfg.Server.Port)
	},
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// buildMux wires the API routes. Responses always use the JSON format with
// the configured key style.
func buildMux(env *leedEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/buildings", func(w http.ResponseWriter, r *http.Request) {
		qf := queryFlags{
			geo:    r.URL.Query().Get("geo"),
			after:  r.URL.Query().Get("after"),
			before: r.URL.Query().Get("before"),
		}
		q, err := qf.query(time.Now())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		outcomes, err := gbig.Harvest(r.Context(), env.Discoverer, env.Extractor, q, env.Concurrency)
		if err != nil {
			zap.L().Error("harvest failed", zap.String("geo_id", q.GeoID), zap.Error(err))
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeOutcomes(w, outcomes, env.KeyStyle)
	})

	r.Get("/buildings/extract", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, eris.New("id is required"))
			return
		}

		outcome, err := env.Extractor.Extract(r.Context(), id)
		if err != nil {
			zap.L().Error("extract failed", zap.String("id", id), zap.Error(err))
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeOutcomes(w, []model.Outcome{outcome}, env.KeyStyle)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeOutcomes(w http.ResponseWriter, outcomes []model.Outcome, style export.KeyStyle) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, outcomes, export.FormatJSON, style); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

// startServer serves handler on port until ctx is cancelled, then shuts
// down gracefully.
func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
