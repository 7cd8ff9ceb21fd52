package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/models"
	"github.com/renaqd/team1-ADS507/internal/nba"
	"github.com/renaqd/team1-ADS507/internal/retry"
)

// Report summarizes one entity-kind run for end-of-run reporting. Skipped
// counts work units abandoned after errors; Written counts rows the sink
// actually committed.
type Report struct {
	Kind     Kind
	Stage    Stage
	Fetched  int
	Skipped  int
	Written  int
	Duration time.Duration
	Err      error
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %s (fetched=%d skipped=%d written=%d in %s)",
		r.Kind, r.Stage, r.Fetched, r.Skipped, r.Written, r.Duration.Round(time.Millisecond))
}

// Log emits the report at a level matching its outcome
func (r Report) Log() {
	event := log.Info()
	if r.Stage == StageFailed {
		event = log.Error().Err(r.Err)
	}
	event.
		Str("kind", string(r.Kind)).
		Str("stage", r.Stage.String()).
		Int("fetched", r.Fetched).
		Int("skipped", r.Skipped).
		Int("written", r.Written).
		Dur("duration", r.Duration).
		Msg("Pipeline run finished")
}

// classify maps an error to the skip-reason label used in metrics
func classify(err error) string {
	var exhausted *retry.ExhaustedError
	var schema *models.SchemaError

	switch {
	case errors.As(err, &exhausted):
		return "fetch_exhausted"
	case errors.Is(err, nba.ErrInvalidPayload):
		return "invalid_payload"
	case errors.As(err, &schema):
		return "schema_mismatch"
	default:
		return "error"
	}
}
