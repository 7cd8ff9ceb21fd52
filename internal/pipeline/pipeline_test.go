package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renaqd/team1-ADS507/internal/config"
	"github.com/renaqd/team1-ADS507/internal/models"
	"github.com/renaqd/team1-ADS507/internal/nba"
	"github.com/renaqd/team1-ADS507/internal/retry"
)

func TestStageString(t *testing.T) {
	assert.Equal(t, "pending", StagePending.String())
	assert.Equal(t, "fetching", StageFetching.String())
	assert.Equal(t, "normalizing", StageNormalizing.String())
	assert.Equal(t, "writing", StageWriting.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "failed", StageFailed.String())
	assert.Equal(t, "unknown", Stage(99).String())
}

func TestClassify(t *testing.T) {
	exhausted := &retry.ExhaustedError{Operation: "teaminfocommon 1610612737", Attempts: 3, Err: errors.New("status 503")}
	assert.Equal(t, "fetch_exhausted", classify(exhausted))
	assert.Equal(t, "fetch_exhausted", classify(fmt.Errorf("failed to fetch team: %w", exhausted)))

	assert.Equal(t, "invalid_payload", classify(fmt.Errorf("team 1: %w: empty result set", nba.ErrInvalidPayload)))

	assert.Equal(t, "schema_mismatch", classify(&models.SchemaError{Kind: "team", Field: "TEAM_ID"}))

	assert.Equal(t, "error", classify(errors.New("connection reset")))
}

func TestReportString(t *testing.T) {
	r := Report{Kind: KindTeams, Stage: StageDone, Fetched: 30, Skipped: 2, Written: 28, Duration: 1500 * time.Millisecond}
	assert.Equal(t, "teams: done (fetched=30 skipped=2 written=28 in 1.5s)", r.String())
}

func TestGameIDAsInt(t *testing.T) {
	id, err := gameIDAsInt("0022400500")
	require.NoError(t, err)
	assert.Equal(t, 22400500, id)

	_, err = gameIDAsInt("GAME-1")
	assert.Error(t, err)
}

func TestPause_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pause(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPause_ZeroDuration(t *testing.T) {
	assert.NoError(t, pause(context.Background(), 0))
}

func TestCurrentSeasonPlayerIDs(t *testing.T) {
	p := &Pipeline{cfg: &config.Config{Season: "2024-25"}}

	index := []nba.RawRecord{
		{"PERSON_ID": float64(100), "TO_YEAR": "2024"},
		{"PERSON_ID": float64(200), "TO_YEAR": "2019"}, // retired
		{"PERSON_ID": float64(300), "TO_YEAR": "2024"},
		{"TO_YEAR": "2024"}, // malformed: no id
	}

	report := Report{}
	ids := p.currentSeasonPlayerIDs(index, &report)

	assert.Equal(t, []int{100, 300}, ids)
	assert.Equal(t, 1, report.Skipped, "malformed index entries count as skips")
}
