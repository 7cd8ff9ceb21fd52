package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/metrics"
	"github.com/renaqd/team1-ADS507/internal/retry"
)

// NBA team IDs are a fixed contiguous block assigned by the provider.
const (
	firstTeamID = 1610612737
	teamCount   = 30
)

// Client is the stats.nba.com API client. All requests go through a shared
// retry policy with jittered delays; the provider's rate limits are
// undocumented, so calls are issued strictly sequentially.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	season     string
}

// NewClient creates a stats.nba.com client
func NewClient(baseURL, season string, timeout time.Duration, policy retry.Policy) *Client {
	return &Client{
		baseURL: baseURL,
		season:  season,
		policy:  policy,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request against one stats endpoint, applying the retry
// policy. Transient failures (network errors, 429/5xx) are retried with
// exponential backoff; malformed payloads and auth failures are not.
// key identifies the entity being fetched and is carried into the
// exhaustion error so callers can report which unit was skipped.
func (c *Client) get(ctx context.Context, endpoint, key string, params url.Values) (*Payload, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	op := endpoint
	if key != "" {
		op = endpoint + " " + key
	}

	var payload *Payload
	start := time.Now()
	err := c.policy.Do(ctx, op, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.NonRetryable(fmt.Errorf("failed to create request: %w", err))
		}

		// The stats API rejects requests without browser-like headers
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
		req.Header.Set("Referer", "https://www.nba.com/")
		req.Header.Set("x-nba-stats-origin", "stats")
		req.Header.Set("x-nba-stats-token", "true")

		if len(params) > 0 {
			req.URL.RawQuery = params.Encode()
		}

		log.Debug().
			Str("endpoint", endpoint).
			Str("url", req.URL.String()).
			Msg("Making API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("API request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to decode

		case resp.StatusCode == http.StatusTooManyRequests,
			resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("API returned retryable status %d", resp.StatusCode)

		case resp.StatusCode == http.StatusUnauthorized,
			resp.StatusCode == http.StatusForbidden:
			return retry.NonRetryable(fmt.Errorf("API request rejected (status %d): %s", resp.StatusCode, string(body)))

		default:
			return retry.NonRetryable(fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
		}

		var decoded Payload
		if err := json.Unmarshal(body, &decoded); err != nil {
			return retry.NonRetryable(fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}

		payload = &decoded
		log.Debug().
			Str("endpoint", endpoint).
			Int("result_sets", len(decoded.ResultSets)).
			Int("size", len(body)).
			Msg("API request successful")
		return nil
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAPICall(endpoint, status, time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return payload, nil
}

// TeamIDs returns the fixed universe of NBA team identifiers.
func (c *Client) TeamIDs() []int {
	ids := make([]int, teamCount)
	for i := range ids {
		ids[i] = firstTeamID + i
	}
	return ids
}

// FetchTeamInfo fetches current-season record and metadata for one team
func (c *Client) FetchTeamInfo(ctx context.Context, teamID int) (RawRecord, error) {
	params := url.Values{}
	params.Set("TeamID", fmt.Sprintf("%d", teamID))
	params.Set("LeagueID", "00")
	params.Set("Season", c.season)
	params.Set("SeasonType", "Regular Season")

	payload, err := c.get(ctx, "teaminfocommon", fmt.Sprintf("%d", teamID), params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team %d: %w", teamID, err)
	}

	records, err := payload.ResultSet("TeamInfoCommon")
	if err != nil {
		return nil, fmt.Errorf("team %d: %w", teamID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("team %d: %w: empty TeamInfoCommon result set", teamID, ErrInvalidPayload)
	}

	return records[0], nil
}

// FetchAllPlayers fetches the full player index for the configured season
func (c *Client) FetchAllPlayers(ctx context.Context) ([]RawRecord, error) {
	params := url.Values{}
	params.Set("IsOnlyCurrentSeason", "0")
	params.Set("LeagueID", "00")
	params.Set("Season", c.season)

	payload, err := c.get(ctx, "commonallplayers", "", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player index: %w", err)
	}

	records, err := payload.ResultSet("CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	return records, nil
}

// FetchPlayerInfo fetches position and roster data for one player
func (c *Client) FetchPlayerInfo(ctx context.Context, playerID int) (RawRecord, error) {
	params := url.Values{}
	params.Set("PlayerID", fmt.Sprintf("%d", playerID))
	params.Set("LeagueID", "00")

	payload, err := c.get(ctx, "commonplayerinfo", fmt.Sprintf("%d", playerID), params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %d: %w", playerID, err)
	}

	records, err := payload.ResultSet("CommonPlayerInfo")
	if err != nil {
		return nil, fmt.Errorf("player %d: %w", playerID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("player %d: %w: empty CommonPlayerInfo result set", playerID, ErrInvalidPayload)
	}

	return records[0], nil
}

// FetchGames fetches league-wide game results within a date range
func (c *Client) FetchGames(ctx context.Context, from, to time.Time) ([]RawRecord, error) {
	params := url.Values{}
	params.Set("DateFrom", from.Format("01/02/2006"))
	params.Set("DateTo", to.Format("01/02/2006"))
	params.Set("PlayerOrTeam", "T")
	params.Set("LeagueID", "00")

	payload, err := c.get(ctx, "leaguegamefinder", "", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}

	records, err := payload.ResultSet("LeagueGameFinderResults")
	if err != nil {
		return nil, err
	}

	// The game finder spans every league; keep NBA team rows only
	filtered := records[:0]
	for _, rec := range records {
		teamID := rec.Int("TEAM_ID")
		if teamID >= firstTeamID && teamID < firstTeamID+teamCount {
			filtered = append(filtered, rec)
		}
	}

	return filtered, nil
}

// HustleBoxScore holds the two result sets of a hustle stats box score
type HustleBoxScore struct {
	PlayerStats  []RawRecord
	Availability []RawRecord
}

// FetchHustleBoxScore fetches per-player hustle stats for one game
func (c *Client) FetchHustleBoxScore(ctx context.Context, gameID string) (*HustleBoxScore, error) {
	params := url.Values{}
	params.Set("GameID", gameID)

	payload, err := c.get(ctx, "hustlestatsboxscore", gameID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hustle stats for game %s: %w", gameID, err)
	}

	playerStats, err := payload.ResultSet("PlayerStats")
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}

	// Availability flags are optional on older payload versions
	availability, err := payload.ResultSet("HustleStatsAvailable")
	if err != nil {
		availability = nil
	}

	return &HustleBoxScore{PlayerStats: playerStats, Availability: availability}, nil
}
