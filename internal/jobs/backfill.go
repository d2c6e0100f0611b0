package jobs

import (
	"context"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"

	"LeagueLadder/internal/matchmaking"
)

// BackfillReconciler periodically sweeps every configured league so that
// members missed by event-driven matching (bulk imports, earlier "no free
// opponent" outcomes) still get paired. The sweep is idempotent, so the
// interval is a freshness knob, not a correctness one.
type BackfillReconciler struct {
	svc      *matchmaking.Service
	leagues  []string
	interval time.Duration
	sched    gocron.Scheduler
}

func NewBackfillReconciler(svc *matchmaking.Service, leagues []string, interval time.Duration) *BackfillReconciler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &BackfillReconciler{svc: svc, leagues: leagues, interval: interval}
}

func (r *BackfillReconciler) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	r.sched = sched

	_, err = sched.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.RunOnce),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

// RunOnce sweeps all leagues one time. Exposed so tests and ad-hoc admin
// calls can trigger the same pass the scheduler runs.
func (r *BackfillReconciler) RunOnce() {
	ctx := context.Background()
	for _, leagueID := range r.leagues {
		if err := r.svc.BackfillLeague(ctx, leagueID); err != nil {
			clog.Error("backfill sweep failed", "league", leagueID, "err", err)
		}
	}
}

func (r *BackfillReconciler) Stop() {
	if r.sched != nil {
		_ = r.sched.Shutdown()
	}
}
