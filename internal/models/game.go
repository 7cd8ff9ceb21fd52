package models

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/nba"
)

// Game identifies one game discovered via the date-range query. Games are
// not persisted as their own entity; they drive per-game hustle fetches and
// carry the date and matchup strings into the stat rows.
type Game struct {
	GameID  string
	Date    time.Time
	HasDate bool
	Matchup string
}

// GameFromRecord normalizes one LeagueGameFinderResults record. An
// unparsable game date is logged and left null, not fatal.
func GameFromRecord(rec nba.RawRecord) (*Game, error) {
	if !rec.Has("GAME_ID") {
		return nil, &SchemaError{Kind: "game", Field: "GAME_ID"}
	}

	g := &Game{
		GameID:  rec.Str("GAME_ID"),
		Matchup: rec.Str("MATCHUP"),
	}

	if date, ok := rec.Date("GAME_DATE"); ok {
		g.Date = date
		g.HasDate = true
	} else if rec.Has("GAME_DATE") {
		log.Warn().
			Str("game_id", g.GameID).
			Str("game_date", rec.Str("GAME_DATE")).
			Msg("Unparsable game date, storing null")
	}

	return g, nil
}

// DateValue returns the SQL value for the game date: the parsed date or null
func (g *Game) DateValue() any {
	if !g.HasDate {
		return nil
	}
	return g.Date
}
