//go:build integration

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renaqd/team1-ADS507/internal/models"
)

func TestTeamRepository_UpsertBatch(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	teams := []*models.Team{
		{TeamID: 2000001, SeasonYear: "2024-25", City: "Boston", Name: "Celtics", Abbreviation: "BOS", Conference: "East", Wins: 64, Losses: 18, WinPct: 0.78},
		{TeamID: 2000002, SeasonYear: "2024-25", City: "Denver", Name: "Nuggets", Abbreviation: "DEN", Conference: "West", Wins: 57, Losses: 25, WinPct: 0.695},
	}

	written, err := db.Teams.UpsertBatch(ctx, teams)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	retrieved, err := db.Teams.GetByTeamID(ctx, 2000001)
	require.NoError(t, err)
	assert.Equal(t, "Celtics", retrieved.Name)
	assert.Equal(t, "BOS", retrieved.Abbreviation)
	assert.Equal(t, 64, retrieved.Wins)
}

func TestTeamRepository_UpsertIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		TeamID: 2000010, SeasonYear: "2024-25", City: "Phoenix", Name: "Suns",
		Abbreviation: "PHX", Conference: "West", Wins: 49, Losses: 33, WinPct: 0.598,
	}

	_, err := db.Teams.UpsertBatch(ctx, []*models.Team{team})
	require.NoError(t, err)
	before, err := db.Teams.Count(ctx)
	require.NoError(t, err)

	// Re-ingesting the identical record must not create a second row
	_, err = db.Teams.UpsertBatch(ctx, []*models.Team{team})
	require.NoError(t, err)
	after, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "re-run should not change row count")
}

func TestTeamRepository_UpsertUpdatesStanding(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		TeamID: 2000020, SeasonYear: "2024-25", City: "Milwaukee", Name: "Bucks",
		Abbreviation: "MIL", Conference: "East", Wins: 30, Losses: 20, WinPct: 0.6,
	}
	_, err := db.Teams.UpsertBatch(ctx, []*models.Team{team})
	require.NoError(t, err)

	// Simulate a later run after more games played
	team.Wins = 35
	team.Losses = 22
	team.WinPct = 0.614
	_, err = db.Teams.UpsertBatch(ctx, []*models.Team{team})
	require.NoError(t, err)

	updated, err := db.Teams.GetByTeamID(ctx, 2000020)
	require.NoError(t, err)
	assert.Equal(t, 35, updated.Wins)
	assert.Equal(t, 22, updated.Losses)
	assert.Equal(t, 0.614, updated.WinPct)
}

func TestTeamRepository_GetByTeamID_NotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Teams.GetByTeamID(ctx, 999999999)
	assert.Error(t, err, "Should return error for non-existent team")
}
