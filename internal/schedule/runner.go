// Package schedule runs the recurring background jobs of the review
// backend.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/JunMun28/littleJourney-sub003/internal/review"
)

// promptHour is the UTC hour of the daily prompt check. Late afternoon
// keeps the push out of most users' night.
const promptHour = 17

// PromptService is the review-side surface the runner needs.
type PromptService interface {
	IsPromptNeeded(ctx context.Context, childID string) (bool, error)
	SendPrompt(ctx context.Context, childID string) bool
}

// Runner checks once a day whether the active child should be prompted
// to create a year-in-review and fires the push when so.
type Runner struct {
	scheduler gocron.Scheduler
	reviews   PromptService
	children  review.ChildSource
	log       *logrus.Entry
}

// NewRunner creates the daily prompt runner.
func NewRunner(reviews PromptService, children review.ChildSource) (*Runner, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return &Runner{
		scheduler: scheduler,
		reviews:   reviews,
		children:  children,
		log:       logrus.WithField("component", "prompt-runner"),
	}, nil
}

// Start registers the daily prompt job and starts the scheduler.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(promptHour, 0, 0))),
		gocron.NewTask(func() {
			r.runOnce(ctx)
		}),
		gocron.WithName("year-in-review-prompt"),
	)
	if err != nil {
		return fmt.Errorf("registering prompt job: %w", err)
	}
	r.scheduler.Start()
	r.log.Info("prompt runner started")
	return nil
}

// Stop shuts down the scheduler, waiting for a running job to finish.
func (r *Runner) Stop() error {
	return r.scheduler.Shutdown()
}

// runOnce performs one prompt check for the active child. All failures
// are logged and swallowed: the next daily run retries naturally.
func (r *Runner) runOnce(ctx context.Context) {
	child, err := r.children.ActiveChild(ctx)
	if err != nil {
		r.log.WithError(err).Warn("loading active child")
		return
	}
	if child == nil {
		return
	}

	needed, err := r.reviews.IsPromptNeeded(ctx, child.ID)
	if err != nil {
		r.log.WithError(err).Warn("checking prompt condition")
		return
	}
	if !needed {
		return
	}

	if r.reviews.SendPrompt(ctx, child.ID) {
		r.log.WithField("childId", child.ID).Info("year-in-review prompt sent")
	}
}
