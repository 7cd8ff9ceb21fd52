//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renaqd/team1-ADS507/internal/models"
)

func testGame(id string) *models.Game {
	return &models.Game{
		GameID:  id,
		Date:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		HasDate: true,
		Matchup: "BOS vs. ATL",
	}
}

func TestHustleStatsRepository_UpsertBatch(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := testGame("90022400500")
	stats := []*models.HustleStat{
		{GameID: 90022400500, PlayerID: 3000001, TeamID: 2000001, Game: game, Minutes: 2052, Points: 21, Deflections: 4, Boxouts: 6},
		{GameID: 90022400500, PlayerID: 3000002, TeamID: 2000001, Game: game, Minutes: 1444, Points: 12, ContestedShots: 7},
		{GameID: 90022400500, PlayerID: 3000003, TeamID: 2000002, Game: game},
	}

	written, err := db.HustleStats.UpsertBatch(ctx, stats)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	count, err := db.HustleStats.CountByGame(ctx, 90022400500)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestHustleStatsRepository_LateCorrection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := testGame("90022400510")
	stat := &models.HustleStat{
		GameID: 90022400510, PlayerID: 3000010, Game: game,
		Minutes: 1800, Points: 15, Deflections: 2,
	}

	_, err := db.HustleStats.UpsertBatch(ctx, []*models.HustleStat{stat})
	require.NoError(t, err)

	// The provider corrected the deflection count after review
	stat.Deflections = 3
	_, err = db.HustleStats.UpsertBatch(ctx, []*models.HustleStat{stat})
	require.NoError(t, err)

	count, err := db.HustleStats.CountByGame(ctx, 90022400510)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "correction must not duplicate the line")
}

func TestAvailabilityRepository_MarkAndFilter(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	games := []*models.Game{
		testGame("90022400601"),
		testGame("90022400602"),
		testGame("90022400603"),
	}

	// Nothing marked yet: everything is pending
	pending, err := db.Availability.FilterUnprocessed(ctx, games)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	require.NoError(t, db.Availability.MarkProcessed(ctx, 90022400602, 1))

	pending, err = db.Availability.FilterUnprocessed(ctx, games)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "90022400601", pending[0].GameID, "input order is preserved")
	assert.Equal(t, "90022400603", pending[1].GameID)

	// Marking twice is a no-op upsert
	require.NoError(t, db.Availability.MarkProcessed(ctx, 90022400602, 1))
	pending, err = db.Availability.FilterUnprocessed(ctx, games)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestAvailabilityRepository_FilterEmptyInput(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	pending, err := db.Availability.FilterUnprocessed(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
