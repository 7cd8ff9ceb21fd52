package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/config"
	"github.com/renaqd/team1-ADS507/internal/pipeline"
)

// Scheduler manages background refresh tasks:
// - Nightly full refresh of teams and players (static data changes rarely)
// - Periodic polling for newly available hustle box scores
type Scheduler struct {
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, pipe *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		pipe:     pipe,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	// Setup nightly refresh cron job
	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly refresh...")
		s.refreshStaticData(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	// Start cron scheduler
	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRefreshCron).
		Msg("Nightly refresh scheduled")

	// Start hustle polling ticker. Box scores trickle in after games end, so
	// the poller re-checks the unprocessed game universe on a fixed interval.
	interval := time.Duration(s.cfg.HustlePollInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	log.Info().
		Dur("interval", interval).
		Msg("Hustle stats polling started")

	// Start polling goroutine
	go s.pollHustleStats(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// pollHustleStats continuously polls for unprocessed hustle box scores
func (s *Scheduler) pollHustleStats(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping hustle stats polling")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping hustle stats polling")
			return
		case <-s.ticker.C:
			report := s.pipe.RunHustle(ctx)
			report.Log()
		}
	}
}

// refreshStaticData re-ingests teams and the current-season player roster.
// Failures are reported per run and never stop the scheduler.
func (s *Scheduler) refreshStaticData(ctx context.Context) {
	start := time.Now()

	teams := s.pipe.RunTeams(ctx)
	teams.Log()

	players := s.pipe.RunPlayers(ctx)
	players.Log()

	log.Info().
		Dur("duration", time.Since(start)).
		Msg("Static data refresh complete")
}
