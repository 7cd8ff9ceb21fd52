package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/models"
)

// RunHustle ingests per-game hustle stats for recent games. The universe is
// every game in the last N days not yet marked in the availability table.
// Games are processed in small outer batches with an inter-batch pause: the
// pause throttles provider request volume while the writer's own batching
// throttles database round-trips.
func (p *Pipeline) RunHustle(ctx context.Context) Report {
	report := Report{Kind: KindHustle, Stage: StagePending}
	start := time.Now()
	defer func() { observe(&report, start) }()

	report.Stage = StageFetching
	games, err := p.resolveGameUniverse(ctx, &report)
	if err != nil {
		report.Stage = StageFailed
		report.Err = err
		return report
	}

	if len(games) == 0 {
		log.Info().Msg("No new games need hustle stats")
		report.Stage = StageDone
		return report
	}

	log.Info().Int("count", len(games)).Msg("Games pending hustle stats")

	for batchStart := 0; batchStart < len(games); batchStart += p.cfg.GameBatchSize {
		batchEnd := batchStart + p.cfg.GameBatchSize
		if batchEnd > len(games) {
			batchEnd = len(games)
		}

		if err := p.processGameBatch(ctx, games[batchStart:batchEnd], &report); err != nil {
			report.Stage = StageFailed
			report.Err = err
			return report
		}

		if batchEnd < len(games) {
			if err := pause(ctx, p.cfg.GameBatchPause); err != nil {
				report.Stage = StageFailed
				report.Err = err
				return report
			}
		}
	}

	report.Stage = StageDone
	return report
}

// resolveGameUniverse enumerates recent games and filters out those already
// processed, first via the optional cache mirror, then via the availability
// table.
func (p *Pipeline) resolveGameUniverse(ctx context.Context, report *Report) ([]*models.Game, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -p.cfg.GamesDaysBack)

	records, err := p.client.FetchGames(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate recent games: %w", err)
	}

	// The game finder returns one row per team per game; dedupe by game id
	// while preserving enumeration order
	seen := make(map[string]bool, len(records))
	games := make([]*models.Game, 0, len(records)/2)
	for _, rec := range records {
		game, err := models.GameFromRecord(rec)
		if err != nil {
			report.Skipped++
			skip(KindHustle, "game record", err)
			continue
		}
		if seen[game.GameID] {
			continue
		}
		seen[game.GameID] = true
		games = append(games, game)
	}

	if p.cache != nil {
		unmirrored := games[:0]
		for _, game := range games {
			if !p.cache.IsProcessed(ctx, game.GameID) {
				unmirrored = append(unmirrored, game)
			}
		}
		games = unmirrored
	}

	pending, err := p.db.Availability.FilterUnprocessed(ctx, games)
	if err != nil {
		return nil, fmt.Errorf("failed to filter processed games: %w", err)
	}

	return pending, nil
}

// processGameBatch fetches, normalizes and writes one outer batch of games.
// A game whose fetch fails is skipped and left unmarked so a later run can
// retry it.
func (p *Pipeline) processGameBatch(ctx context.Context, games []*models.Game, report *Report) error {
	stats := make([]*models.HustleStat, 0, len(games)*24)
	fetched := make([]*models.Game, 0, len(games))

	for _, game := range games {
		if err := ctx.Err(); err != nil {
			return err
		}

		box, err := p.client.FetchHustleBoxScore(ctx, game.GameID)
		if err != nil {
			report.Skipped++
			skip(KindHustle, "game "+game.GameID, err)
			continue
		}
		report.Fetched++

		for _, rec := range box.PlayerStats {
			stat, err := models.HustleStatFromRecord(rec, game)
			if err != nil {
				report.Skipped++
				skip(KindHustle, "stat line in game "+game.GameID, err)
				continue
			}
			stats = append(stats, stat)
		}
		fetched = append(fetched, game)

		log.Debug().
			Str("game_id", game.GameID).
			Str("matchup", game.Matchup).
			Int("stat_lines", len(box.PlayerStats)).
			Msg("Game processed")
	}

	if len(stats) > 0 {
		written, err := p.db.HustleStats.UpsertBatch(ctx, stats)
		report.Written += written
		if err != nil {
			return err
		}
	}

	// Mark fetched games so later runs skip them; a marking failure is
	// logged and the game stays pending
	for _, game := range fetched {
		gameID, err := gameIDAsInt(game.GameID)
		if err != nil {
			log.Warn().Str("game_id", game.GameID).Msg("Non-numeric game id, not marking availability")
			continue
		}
		if err := p.db.Availability.MarkProcessed(ctx, gameID, 1); err != nil {
			log.Error().Err(err).Str("game_id", game.GameID).Msg("Failed to mark game processed")
			continue
		}
		if p.cache != nil {
			p.cache.MarkProcessed(ctx, game.GameID)
		}
	}

	return nil
}

// gameIDAsInt converts the provider's zero-padded game id string to the
// integer key used by the sink tables.
func gameIDAsInt(gameID string) (int, error) {
	return strconv.Atoi(gameID)
}
