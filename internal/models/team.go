package models

import (
	"time"

	"github.com/renaqd/team1-ADS507/internal/nba"
)

// Team represents an NBA team with its current-season standing. Rows are
// fully refreshed on every ingestion run.
type Team struct {
	TeamID       int       `db:"team_id"`
	SeasonYear   string    `db:"season_year"`
	City         string    `db:"team_city"`
	Name         string    `db:"team_name"`
	Abbreviation string    `db:"team_abbreviation"`
	Conference   string    `db:"team_conference"`
	Wins         int       `db:"wins"`
	Losses       int       `db:"losses"`
	WinPct       float64   `db:"win_pct"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// TeamFromRecord normalizes one TeamInfoCommon record. Win/loss counters
// default to zero when the provider omits them.
func TeamFromRecord(rec nba.RawRecord) (*Team, error) {
	if !rec.Has("TEAM_ID") {
		return nil, &SchemaError{Kind: "team", Field: "TEAM_ID"}
	}

	return &Team{
		TeamID:       rec.Int("TEAM_ID"),
		SeasonYear:   rec.Str("SEASON_YEAR"),
		City:         rec.Str("TEAM_CITY"),
		Name:         rec.Str("TEAM_NAME"),
		Abbreviation: rec.Str("TEAM_ABBREVIATION"),
		Conference:   rec.Str("TEAM_CONFERENCE"),
		Wins:         rec.Int("W"),
		Losses:       rec.Int("L"),
		WinPct:       rec.Float("PCT"),
	}, nil
}

// Row emits values in TeamsTable column order
func (t *Team) Row() []any {
	return []any{
		t.TeamID, t.SeasonYear, t.City, t.Name,
		t.Abbreviation, t.Conference, t.Wins, t.Losses, t.WinPct,
	}
}
