package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/renaqd/team1-ADS507/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db     *Database
	writer *BatchWriter
}

// UpsertBatch inserts or updates players keyed by player_id. Position and
// team assignments move between runs and are always refreshed.
func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []*models.Player) (int, error) {
	rows := make([][]any, 0, len(players))
	for _, player := range players {
		rows = append(rows, player.Row())
	}
	return r.writer.Write(ctx, models.PlayersTable, rows)
}

// GetByPlayerID retrieves a player by its provider-assigned id
func (r *PlayerRepository) GetByPlayerID(ctx context.Context, playerID int) (*models.Player, error) {
	query := `
		SELECT player_id, full_name, position, team_id, team_name,
		       created_at, updated_at
		FROM players
		WHERE player_id = $1
	`

	var player models.Player
	err := r.db.Pool.QueryRow(ctx, query, playerID).Scan(
		&player.PlayerID, &player.FullName, &player.Position,
		&player.TeamID, &player.TeamName, &player.CreatedAt, &player.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player not found: player_id=%d", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListByTeam retrieves the players currently assigned to a team
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT player_id, full_name, position, team_id, team_name,
		       created_at, updated_at
		FROM players
		WHERE team_id = $1
		ORDER BY full_name
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players by team: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var player models.Player
		err := rows.Scan(
			&player.PlayerID, &player.FullName, &player.Position,
			&player.TeamID, &player.TeamName, &player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
