package repojanitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
)

// Run loads the configuration, builds the source and executes the cleanup.
// Without CLEANUP_CRON it runs a single pass and returns; with it, it keeps
// running on the schedule until SIGINT/SIGTERM.
func Run() error {
	// Load configuration
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	slog.Info("starting repojanitor")
	slog.Info("configuration loaded",
		"sourceType", cfg.SourceType,
		"repository", cfg.Repository,
		"retentionCount", cfg.RetentionCount,
		"pathDepth", cfg.PathDepth,
		"dryRun", cfg.DryRun,
		"keepPathPatterns", len(cfg.KeepPathPatterns),
		"cleanupCron", cfg.CleanupCron)

	// Initialize source
	source, err := New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize source: %v", err)
	}
	slog.Info("source initialized", "type", source.Type())

	janitor := NewJanitor(cfg, source)

	// One-shot mode
	if cfg.CleanupCron == "" {
		_, err = janitor.Cleanup(context.Background())
		return err
	}

	// Run cleanup on start if configured
	if cfg.CleanupOnStart {
		slog.Info("running initial cleanup on startup")
		if err = runOnce(janitor, cfg.CleanupTimeout); err != nil {
			slog.Error("initial cleanup failed", "error", err)
		}
	}

	// Setup cron scheduler (standard 5-field format: minute hour dom month dow)
	c := cron.New()

	entryID, err := c.AddFunc(cfg.CleanupCron, func() {
		slog.Info("cron triggered cleanup job")
		if err := runOnce(janitor, cfg.CleanupTimeout); err != nil {
			slog.Error("cleanup failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %v", err)
	}
	slog.Info("cron job registered", "id", int(entryID))

	// Start cron scheduler
	c.Start()
	slog.Info("cron scheduler started, waiting for scheduled jobs")

	// Print next scheduled run time
	entries := c.Entries()
	if len(entries) > 0 {
		slog.Info("next cleanup scheduled", "at", entries[0].Next.Format("2006-01-02 15:04:05"))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("received signal, shutting down", "signal", sig.String())

	// Stop cron scheduler
	stopCtx := c.Stop()
	<-stopCtx.Done()

	slog.Info("shutdown complete")
	return nil
}

func runOnce(janitor *Janitor, timeoutMinutes int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMinutes)*time.Minute)
	defer cancel()

	_, err := janitor.Cleanup(ctx)
	return err
}
