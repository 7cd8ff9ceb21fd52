package nba

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renaqd/team1-ADS507/internal/retry"
)

// testPolicy retries immediately so tests never sleep
func testPolicy(maxAttempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		Multiplier:  2,
		Sleep:       func(ctx context.Context, d time.Duration) error { return ctx.Err() },
	}
}

func teamInfoPayload(teamID int) Payload {
	return Payload{
		Resource: "teaminfocommon",
		ResultSets: []ResultSet{
			{
				Name:    "TeamInfoCommon",
				Headers: []string{"TEAM_ID", "SEASON_YEAR", "TEAM_CITY", "TEAM_NAME", "TEAM_ABBREVIATION", "TEAM_CONFERENCE", "W", "L", "PCT"},
				RowSet: [][]any{
					{teamID, "2024-25", "Boston", "Celtics", "BOS", "East", 64, 18, 0.78},
				},
			},
		},
	}
}

func TestClient_FetchTeamInfo(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teaminfocommon", r.URL.Path)
		gotQuery.Store(r.URL.Query().Encode())
		json.NewEncoder(w).Encode(teamInfoPayload(1610612738))
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	rec, err := client.FetchTeamInfo(context.Background(), 1610612738)
	require.NoError(t, err)
	assert.Equal(t, 1610612738, rec.Int("TEAM_ID"))
	assert.Equal(t, "Celtics", rec.Str("TEAM_NAME"))
	assert.Contains(t, gotQuery.Load().(string), "TeamID=1610612738")
	assert.Contains(t, gotQuery.Load().(string), "Season=2024-25")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(teamInfoPayload(1610612737))
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	rec, err := client.FetchTeamInfo(context.Background(), 1610612737)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "should succeed on the third attempt")
	assert.Equal(t, 1610612737, rec.Int("TEAM_ID"))
}

func TestClient_ExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	_, err := client.FetchTeamInfo(context.Background(), 1610612737)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load(), "budget of 3 means exactly 3 attempts")

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Contains(t, exhausted.Operation, "1610612737", "exhaustion error should carry the entity key")
}

func TestClient_ForbiddenIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	_, err := client.FetchTeamInfo(context.Background(), 1610612737)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "auth failures must not burn retries")

	var exhausted *retry.ExhaustedError
	assert.False(t, errors.As(err, &exhausted))
}

func TestClient_MalformedBodyIsInvalidPayload(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	_, err := client.FetchTeamInfo(context.Background(), 1610612737)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, int32(1), calls.Load(), "undecodable payloads must not be retried")
}

func TestClient_MissingResultSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Payload{Resource: "teaminfocommon"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	_, err := client.FetchTeamInfo(context.Background(), 1610612737)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestClient_TeamIDs(t *testing.T) {
	client := NewClient("http://example.invalid", "2024-25", time.Second, testPolicy(1))

	ids := client.TeamIDs()
	require.Len(t, ids, 30)
	assert.Equal(t, 1610612737, ids[0])
	assert.Equal(t, 1610612766, ids[29])
}

func TestClient_FetchGames_FiltersNonNBATeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/leaguegamefinder", r.URL.Path)
		json.NewEncoder(w).Encode(Payload{
			Resource: "leaguegamefinder",
			ResultSets: []ResultSet{
				{
					Name:    "LeagueGameFinderResults",
					Headers: []string{"TEAM_ID", "GAME_ID", "GAME_DATE", "MATCHUP"},
					RowSet: [][]any{
						{1610612737, "0022400500", "2025-01-10", "ATL vs. BOS"},
						{1610612738, "0022400500", "2025-01-10", "BOS @ ATL"},
						{15019, "1032400001", "2025-01-10", "GLI vs. MXC"}, // G League
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	from := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	records, err := client.FetchGames(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "0022400500", records[0].Str("GAME_ID"))
}

func TestClient_FetchHustleBoxScore_AvailabilityOptional(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Payload{
			Resource: "hustlestatsboxscore",
			ResultSets: []ResultSet{
				{
					Name:    "PlayerStats",
					Headers: []string{"GAME_ID", "PLAYER_ID", "MINUTES", "PTS"},
					RowSet: [][]any{
						{"0022400500", 203500, "34:12", 21},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "2024-25", 5*time.Second, testPolicy(3))

	box, err := client.FetchHustleBoxScore(context.Background(), "0022400500")
	require.NoError(t, err)
	require.Len(t, box.PlayerStats, 1)
	assert.Nil(t, box.Availability)
	assert.Equal(t, 2052, box.PlayerStats[0].ClockSeconds("MINUTES"))
}
