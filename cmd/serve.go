package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/handlers"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/lehigh-university-libraries/collager/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port       string
		configPath string
		staticDir  string
		snapshot   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the collage front-end",
		Long: `Indexes the configured image directories and starts the collage web server.

The server exposes the JSON contract used by the browser front-end
(/json?type=image and /json?type=config), serves pool images from /image,
renders collages server-side at /collage and rescans directories on
POST /api/reindex.`,
		Example: `  # Start server on default port 3000
  collager serve --config config.json

  # Serve a previously exported pool instead of scanning
  collager serve --config config.yaml --snapshot pool.parquet --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			indexer := pool.NewIndexer()
			var p *pool.Pool
			if snapshot != "" {
				p, err = pool.LoadSnapshot(snapshot)
			} else {
				p, err = indexer.Build(cmd.Context(), cfg.ImageDirectories)
			}
			if err != nil {
				return fmt.Errorf("failed to build image pool: %w", err)
			}

			handler, err := handlers.New(cfg, storage.New(p), indexer, staticDir)
			if err != nil {
				return err
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/json", handler.HandleJSON)
			mux.HandleFunc("/image", handler.HandleImage)
			mux.HandleFunc("/collage", handler.HandleCollage)
			mux.HandleFunc("/api/reindex", handler.HandleReindex)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Collage interface available", "addr", addr, "url", "http://localhost"+addr, "images", p.Total)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "3000", "Port to listen on")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (.json, .yaml or .toml)")
	cmd.Flags().StringVar(&staticDir, "static", "dist", "Directory holding the front-end assets")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Load the pool from a .parquet or .jsonl snapshot instead of scanning")

	return cmd
}
