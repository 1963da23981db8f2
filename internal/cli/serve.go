package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/drainfox/internal/config"
	"github.com/haskel/drainfox/internal/logger"
	"github.com/haskel/drainfox/internal/monitor"
	"github.com/haskel/drainfox/internal/server"
	"github.com/haskel/drainfox/internal/storage"
	"github.com/haskel/drainfox/internal/trainer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the drainfox HTTP service",
	Long: `Start the drainfox server in foreground mode. If a trained model
artifact exists in the data directory it is loaded on startup; otherwise
predictions are unavailable until a model is trained via POST /train.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load config
	cfg := config.LoadOrDefault(cfgFile)

	// Override host/port if specified via flag
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	log.Info("drainfox starting",
		"version", Version,
		"config", cfgFile,
	)

	store := storage.New(cfg.Persistence.DataDir, log)
	sampler := monitor.NewSampler(time.Second, log)

	srv := server.New(cfg, store, sampler, log, Version)

	// Load a persisted model if one exists
	if store.ModelExists() {
		var p trainer.Predictor
		if err := store.LoadModel(&p); err != nil {
			log.Warn("failed to load persisted model", "error", err)
		} else {
			srv.SetPredictor(&p)
			log.Info("model loaded", "model", p.Model(), "path", store.ModelPath())
		}
	} else {
		log.Info("no persisted model, predictions unavailable until trained")
	}

	// Signal channels
	sighupCh := make(chan os.Signal, 1)
	sigCh := make(chan os.Signal, 1)
	shutdownDone := make(chan struct{})

	signal.Notify(sighupCh, syscall.SIGHUP)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Handle SIGHUP for hot-reload
	go func() {
		for {
			select {
			case <-sighupCh:
				log.Info("SIGHUP received, reloading configuration")

				newCfg := config.LoadOrDefault(cfgFile)
				if err := newCfg.Validate(); err != nil {
					log.Error("invalid configuration, reload aborted", "error", err)
					continue
				}

				srv.ReloadConfig(newCfg)
			case <-shutdownDone:
				return
			}
		}
	}()

	// Handle shutdown signals
	go func() {
		<-sigCh

		log.Info("shutdown signal received")

		signal.Stop(sighupCh)
		signal.Stop(sigCh)
		close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	log.Info("drainfox ready", "addr", srv.Addr())

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("drainfox stopped")
	return nil
}
