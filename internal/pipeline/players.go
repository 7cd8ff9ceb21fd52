package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/models"
	"github.com/renaqd/team1-ADS507/internal/nba"
)

// RunPlayers refreshes the player table. The universe comes from the
// all-players index filtered to the configured season; each player then gets
// a detail fetch for position and roster data. Index fetches happen in small
// batches with an inter-batch pause to keep request volume down.
func (p *Pipeline) RunPlayers(ctx context.Context) Report {
	report := Report{Kind: KindPlayers, Stage: StagePending}
	start := time.Now()
	defer func() { observe(&report, start) }()

	report.Stage = StageFetching
	index, err := p.client.FetchAllPlayers(ctx)
	if err != nil {
		report.Stage = StageFailed
		report.Err = fmt.Errorf("failed to resolve player universe: %w", err)
		return report
	}

	playerIDs := p.currentSeasonPlayerIDs(index, &report)
	log.Info().
		Int("index_size", len(index)).
		Int("current_season", len(playerIDs)).
		Msg("Player universe resolved")

	records := make([]nba.RawRecord, 0, len(playerIDs))
	for batchStart := 0; batchStart < len(playerIDs); batchStart += p.cfg.GameBatchSize {
		batchEnd := batchStart + p.cfg.GameBatchSize
		if batchEnd > len(playerIDs) {
			batchEnd = len(playerIDs)
		}

		for _, playerID := range playerIDs[batchStart:batchEnd] {
			if ctx.Err() != nil {
				report.Stage = StageFailed
				report.Err = ctx.Err()
				return report
			}

			rec, err := p.client.FetchPlayerInfo(ctx, playerID)
			if err != nil {
				report.Skipped++
				skip(KindPlayers, fmt.Sprintf("player %d", playerID), err)
				continue
			}
			records = append(records, rec)
			report.Fetched++
		}

		if batchEnd < len(playerIDs) {
			if err := pause(ctx, p.cfg.GameBatchPause); err != nil {
				report.Stage = StageFailed
				report.Err = err
				return report
			}
		}
	}

	report.Stage = StageNormalizing
	players := make([]*models.Player, 0, len(records))
	for _, rec := range records {
		player, err := models.PlayerFromRecord(rec)
		if err != nil {
			report.Skipped++
			skip(KindPlayers, fmt.Sprintf("player %d", rec.Int("PERSON_ID")), err)
			continue
		}
		players = append(players, player)
	}

	if len(players) == 0 {
		report.Stage = StageFailed
		report.Err = fmt.Errorf("no player records survived fetch and normalization")
		return report
	}

	report.Stage = StageWriting
	written, err := p.db.Players.UpsertBatch(ctx, players)
	report.Written = written
	if err != nil {
		report.Stage = StageFailed
		report.Err = err
		return report
	}

	report.Stage = StageDone
	return report
}

// currentSeasonPlayerIDs filters the all-players index down to players
// active in the configured season ("2024-25" keeps TO_YEAR == "2024").
func (p *Pipeline) currentSeasonPlayerIDs(index []nba.RawRecord, report *Report) []int {
	seasonStart, _, _ := strings.Cut(p.cfg.Season, "-")

	ids := make([]int, 0, len(index))
	for _, rec := range index {
		entry, err := models.PlayerIndexFromRecord(rec)
		if err != nil {
			report.Skipped++
			skip(KindPlayers, "player index entry", err)
			continue
		}
		if entry.ToYear == seasonStart {
			ids = append(ids, entry.PlayerID)
		}
	}
	return ids
}
