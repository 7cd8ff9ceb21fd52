package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/renaqd/team1-ADS507/internal/models"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db     *Database
	writer *BatchWriter
}

// UpsertBatch inserts or updates teams keyed by team_id, refreshing the
// current-season standing columns on every run.
func (r *TeamRepository) UpsertBatch(ctx context.Context, teams []*models.Team) (int, error) {
	rows := make([][]any, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, team.Row())
	}
	return r.writer.Write(ctx, models.TeamsTable, rows)
}

// GetByTeamID retrieves a team by its provider-assigned id
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID int) (*models.Team, error) {
	query := `
		SELECT team_id, season_year, team_city, team_name, team_abbreviation,
		       team_conference, wins, losses, win_pct, created_at, updated_at
		FROM teams
		WHERE team_id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.TeamID, &team.SeasonYear, &team.City, &team.Name,
		&team.Abbreviation, &team.Conference, &team.Wins, &team.Losses,
		&team.WinPct, &team.CreatedAt, &team.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team not found: team_id=%d", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams ordered by city
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT team_id, season_year, team_city, team_name, team_abbreviation,
		       team_conference, wins, losses, win_pct, created_at, updated_at
		FROM teams
		ORDER BY team_city
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.TeamID, &team.SeasonYear, &team.City, &team.Name,
			&team.Abbreviation, &team.Conference, &team.Wins, &team.Losses,
			&team.WinPct, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
