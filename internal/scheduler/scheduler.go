package scheduler

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"

	"culturepulse/pkg/alert"
	"culturepulse/pkg/server"
)

// Scheduler refreshes the pulse on a cron schedule and raises threshold
// alerts on the results.
type Scheduler struct {
	srv       *server.Server
	alertMgr  *alert.Manager
	schedule  string
	threshold float64

	// alerted tracks categories currently above the threshold so each
	// crossing alerts once.
	alerted map[string]bool
}

// New creates a scheduler. schedule is a five-field cron expression.
func New(srv *server.Server, alertMgr *alert.Manager, schedule string, threshold float64) *Scheduler {
	if schedule == "" {
		schedule = "0 * * * *"
	}
	if threshold <= 0 {
		threshold = 85
	}
	return &Scheduler{
		srv:       srv,
		alertMgr:  alertMgr,
		schedule:  schedule,
		threshold: threshold,
		alerted:   make(map[string]bool),
	}
}

// Run refreshes once immediately, then on the cron schedule. Blocks until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	fmt.Fprintln(os.Stderr, "scheduler: initial refresh...")
	s.refresh(ctx)

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		fmt.Fprintln(os.Stderr, "scheduler: refreshing...")
		s.refresh(ctx)
	}); err != nil {
		return fmt.Errorf("parse schedule %q: %w", s.schedule, err)
	}

	c.Start()
	fmt.Fprintf(os.Stderr, "scheduler: running (refresh %q)\n", s.schedule)

	<-ctx.Done()
	stop := c.Stop()
	<-stop.Done()
	fmt.Fprintln(os.Stderr, "scheduler: stopped")
	return ctx.Err()
}

func (s *Scheduler) refresh(ctx context.Context) {
	res := s.srv.Refresh(ctx)
	fmt.Fprintf(os.Stderr, "  refreshed %d categories\n", len(res.Normalized))

	if s.alertMgr == nil || !s.alertMgr.HasNotifiers() {
		return
	}

	for _, n := range res.Normalized {
		score := n.PulseScore.PulseScore
		if score < s.threshold {
			delete(s.alerted, n.Category)
			continue
		}
		if s.alerted[n.Category] {
			continue
		}

		notification := &alert.Notification{
			Category:      n.Category,
			Score:         score,
			OriginalScore: n.OriginalScore,
			ArticleCount:  n.ArticleCount,
			Body: fmt.Sprintf("Pulse over the last %d days crossed %.0f",
				n.DaysAnalyzed, s.threshold),
		}
		if err := s.alertMgr.Broadcast(ctx, notification); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for %s: %v\n", n.Category, err)
			continue
		}
		s.alerted[n.Category] = true
		fmt.Fprintf(os.Stderr, "  alerted: %s (pulse %.1f)\n", n.Category, score)
	}
}
