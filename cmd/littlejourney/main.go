// Command littlejourney runs the Little Journey year-in-review service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/JunMun28/littleJourney-sub003/internal/config"
	"github.com/JunMun28/littleJourney-sub003/internal/db"
	"github.com/JunMun28/littleJourney-sub003/internal/notify"
	"github.com/JunMun28/littleJourney-sub003/internal/review"
	"github.com/JunMun28/littleJourney-sub003/internal/schedule"
	"github.com/JunMun28/littleJourney-sub003/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	storeOpts := []review.StoreOption{review.WithPersister(database.Reviews())}
	if cfg.SnapshotTTL > 0 {
		storeOpts = append(storeOpts, review.WithSnapshotTTL(cfg.SnapshotTTL))
	}
	store := review.NewStore(storeOpts...)

	reviews, snapshots, err := database.Reviews().LoadReviews(ctx)
	if err != nil {
		return fmt.Errorf("loading reviews: %w", err)
	}
	store.Restore(reviews, snapshots)

	recaps, err := database.Reviews().LoadRecaps(ctx)
	if err != nil {
		return fmt.Errorf("loading recaps: %w", err)
	}
	store.RestoreRecaps(recaps)
	logrus.WithFields(logrus.Fields{
		"reviews": len(reviews),
		"recaps":  len(recaps),
	}).Info("restored reviews from database")

	var notifier review.Notifier
	notifyCfg, err := notify.LoadConfig()
	switch {
	case err == nil:
		notifier = notify.NewClient(notifyCfg)
	case errors.Is(err, notify.ErrMissingCredentials):
		logrus.Warn("push gateway not configured, prompts will not be delivered")
		notifier = notify.Disabled{}
	default:
		return fmt.Errorf("loading notify config: %w", err)
	}

	service := review.NewService(store, database.Entries(), database.Milestones(), database.Children(), notifier)

	runner, err := schedule.NewRunner(service, database.Children())
	if err != nil {
		return fmt.Errorf("creating prompt runner: %w", err)
	}
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("starting prompt runner: %w", err)
	}
	defer func() {
		if err := runner.Stop(); err != nil {
			logrus.WithError(err).Error("stopping prompt runner")
		}
	}()

	server := web.NewServer(web.ServerConfig{Addr: cfg.Addr}, web.NewHandlers(service))
	return server.Run()
}
