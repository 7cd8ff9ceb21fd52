package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/renaqd/team1-ADS507/internal/metrics"
	"github.com/renaqd/team1-ADS507/internal/models"
)

// AvailabilityRepository maintains the hustle_stats_available cursor table:
// which games already had their detailed stats fetched. It exists purely so
// subsequent runs can skip completed games.
type AvailabilityRepository struct {
	db     *Database
	writer *BatchWriter
}

// MarkProcessed records that a game's hustle stats were fetched. The writer
// absorbs rejected batches, so the committed-row count is the only signal
// that the marker actually landed; an uncommitted marker must surface as an
// error or callers would mirror an unmarked game into the cache.
func (r *AvailabilityRepository) MarkProcessed(ctx context.Context, gameID int, status int) error {
	written, err := r.writer.Write(ctx, models.AvailabilityTable, [][]any{{gameID, status}})
	if err != nil {
		return fmt.Errorf("failed to mark game %d processed: %w", gameID, err)
	}
	if written == 0 {
		return fmt.Errorf("failed to mark game %d processed: marker row not committed", gameID)
	}
	metrics.GamesMarkedAvailable.Inc()
	return nil
}

// FilterUnprocessed returns the subset of games not yet marked in the
// availability table, preserving input order.
func (r *AvailabilityRepository) FilterUnprocessed(ctx context.Context, games []*models.Game) ([]*models.Game, error) {
	if len(games) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(games))
	for _, game := range games {
		id, err := strconv.Atoi(game.GameID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT game_id FROM hustle_stats_available WHERE game_id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability markers: %w", err)
	}
	defer rows.Close()

	processed := make(map[int]bool, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan availability marker: %w", err)
		}
		processed[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability markers: %w", err)
	}

	var pending []*models.Game
	for _, game := range games {
		id, err := strconv.Atoi(game.GameID)
		if err != nil || !processed[id] {
			pending = append(pending, game)
		}
	}

	return pending, nil
}

// Count returns the number of games marked as processed
func (r *AvailabilityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM hustle_stats_available`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count availability markers: %w", err)
	}
	return count, nil
}
