package repository

import (
	"context"
	"fmt"

	"github.com/renaqd/team1-ADS507/internal/models"
)

// HustleStatsRepository handles per-game hustle stat database operations
type HustleStatsRepository struct {
	db     *Database
	writer *BatchWriter
}

// UpsertBatch inserts or updates hustle stat lines keyed by
// (game_id, player_id). Re-fetches of a final game apply late corrections in
// place without creating duplicate rows.
func (r *HustleStatsRepository) UpsertBatch(ctx context.Context, stats []*models.HustleStat) (int, error) {
	rows := make([][]any, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, stat.Row())
	}
	return r.writer.Write(ctx, models.HustleStatsTable, rows)
}

// CountByGame returns the number of stat lines stored for one game
func (r *HustleStatsRepository) CountByGame(ctx context.Context, gameID int) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM hustle_stats WHERE game_id = $1`, gameID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count hustle stats for game %d: %w", gameID, err)
	}
	return count, nil
}

// Count returns the total number of hustle stat lines
func (r *HustleStatsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM hustle_stats`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count hustle stats: %w", err)
	}
	return count, nil
}
