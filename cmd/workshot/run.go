package main

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workshot/workshot/internal/config"
	"github.com/workshot/workshot/internal/daemon"
	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/internal/monitor"
	"github.com/workshot/workshot/internal/web"
	"github.com/workshot/workshot/pkg/detector"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tracker and dashboard in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg, false)

		dm := daemon.New(cfg.Daemon.PIDFile)
		if running, pid, err := dm.IsRunning(); err != nil {
			return err
		} else if running {
			log.Error().Int("pid", pid).Msg("tracker is already running")
			return nil
		}

		return runTracker(cfg, dm, !flagNoBrowser)
	},
}

// runTracker wires the full pipeline and blocks until SIGINT/SIGTERM.
func runTracker(cfg *config.Config, dm *daemon.Daemon, openBrowser bool) error {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return err
	}

	repo := database.NewSessionRepository(db)

	// A hard crash can leave one session open; repair before the loop
	// opens its first, so the single-open-session invariant holds from
	// the first tick.
	if repaired, err := repo.RepairDangling(); err != nil {
		return err
	} else if repaired > 0 {
		log.Warn().Int64("sessions", repaired).Msg("closed dangling sessions from previous run")
	}

	provider, err := detector.New()
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := dm.WritePID(); err != nil {
		return err
	}
	defer dm.RemovePID()

	mon := monitor.New(cfg, repo, provider)
	handler := web.NewHandler(cfg, repo, mon)
	server := web.NewServer(cfg, handler)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("web server failed")
		}
	}()

	mon.Start()
	log.Info().Str("config", cfg.String()).Msg("workshot running")

	if openBrowser && cfg.Web.OpenBrowser {
		launchBrowser("http://" + server.GetAddress())
	}

	<-sigChan
	log.Info().Msg("received shutdown signal")

	mon.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error shutting down web server")
	}

	return nil
}

// launchBrowser opens the dashboard, best-effort. xdg-open covers every
// desktop we target; failure only means the user opens the URL manually.
func launchBrowser(url string) {
	go func() {
		time.Sleep(500 * time.Millisecond) // let the server bind first
		if err := exec.Command("xdg-open", url).Start(); err != nil {
			log.Debug().Err(err).Str("url", url).Msg("could not open browser")
		}
	}()
}
