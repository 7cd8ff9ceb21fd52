package models

import (
	"time"

	"github.com/renaqd/team1-ADS507/internal/nba"
)

// Player represents an NBA player on a current roster. Position and team
// may change between runs; rows are refreshed by upsert.
type Player struct {
	PlayerID  int       `db:"player_id"`
	FullName  string    `db:"full_name"`
	Position  string    `db:"position"`
	TeamID    int       `db:"team_id"`
	TeamName  string    `db:"team_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PlayerFromRecord normalizes one CommonPlayerInfo record
func PlayerFromRecord(rec nba.RawRecord) (*Player, error) {
	if !rec.Has("PERSON_ID") {
		return nil, &SchemaError{Kind: "player", Field: "PERSON_ID"}
	}

	return &Player{
		PlayerID: rec.Int("PERSON_ID"),
		FullName: rec.Str("DISPLAY_FIRST_LAST"),
		Position: rec.Str("POSITION"),
		TeamID:   rec.Int("TEAM_ID"),
		TeamName: rec.Str("TEAM_NAME"),
	}, nil
}

// Row emits values in PlayersTable column order
func (p *Player) Row() []any {
	return []any{p.PlayerID, p.FullName, p.Position, p.TeamID, p.TeamName}
}

// PlayerIndexEntry is one row of the CommonAllPlayers index, used only to
// resolve the universe of player ids worth a detail fetch.
type PlayerIndexEntry struct {
	PlayerID int
	ToYear   string
}

// PlayerIndexFromRecord normalizes one CommonAllPlayers record
func PlayerIndexFromRecord(rec nba.RawRecord) (*PlayerIndexEntry, error) {
	if !rec.Has("PERSON_ID") {
		return nil, &SchemaError{Kind: "player index", Field: "PERSON_ID"}
	}

	return &PlayerIndexEntry{
		PlayerID: rec.Int("PERSON_ID"),
		ToYear:   rec.Str("TO_YEAR"),
	}, nil
}
