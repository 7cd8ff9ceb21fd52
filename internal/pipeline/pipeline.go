// Package pipeline sequences the three ingestion pipelines: teams, players
// and per-game hustle stats. Each kind runs fetch, normalize and write as
// explicit stages; failures are absorbed at the smallest scope (one entity,
// one batch) and surface only as log records and skip counts, never past
// the kind boundary.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/cache"
	"github.com/renaqd/team1-ADS507/internal/config"
	"github.com/renaqd/team1-ADS507/internal/metrics"
	"github.com/renaqd/team1-ADS507/internal/nba"
	"github.com/renaqd/team1-ADS507/internal/repository"
)

// Kind is one of the three top-level entity categories ingested
type Kind string

const (
	KindTeams   Kind = "teams"
	KindPlayers Kind = "players"
	KindHustle  Kind = "hustle"
)

// Stage tracks where a kind's run currently is
type Stage int

const (
	StagePending Stage = iota
	StageFetching
	StageNormalizing
	StageWriting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageFetching:
		return "fetching"
	case StageNormalizing:
		return "normalizing"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline wires the fetcher, normalizer and writer for all entity kinds.
// The cache is optional; a nil cache means every availability check goes to
// the database.
type Pipeline struct {
	cfg    *config.Config
	client *nba.Client
	db     *repository.Database
	cache  *cache.RedisCache
}

// New creates a pipeline over the given collaborators
func New(cfg *config.Config, client *nba.Client, db *repository.Database, cache *cache.RedisCache) *Pipeline {
	return &Pipeline{cfg: cfg, client: client, db: db, cache: cache}
}

// RunAll runs the three entity-kind pipelines in sequence. The kinds are
// independent: a failed run is reported and the next kind still executes.
func (p *Pipeline) RunAll(ctx context.Context) []Report {
	reports := make([]Report, 0, 3)

	for _, run := range []func(context.Context) Report{
		p.RunTeams,
		p.RunPlayers,
		p.RunHustle,
	} {
		report := run(ctx)
		report.Log()
		reports = append(reports, report)

		if ctx.Err() != nil {
			break
		}
	}

	return reports
}

// observe finalizes a report with run metrics
func observe(report *Report, start time.Time) {
	status := "success"
	if report.Stage == StageFailed {
		status = "failed"
	}
	report.Duration = time.Since(start)
	metrics.RecordPipelineRun(string(report.Kind), status, report.Duration.Seconds())
}

// pause sleeps between outer batches unless the context ends first
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// skip records one skipped work unit with its classified reason
func skip(kind Kind, unit string, err error) {
	reason := classify(err)
	metrics.RecordSkippedUnit(string(kind), reason)
	log.Error().
		Err(err).
		Str("kind", string(kind)).
		Str("unit", unit).
		Str("reason", reason).
		Msg("Skipping work unit after error")
}
